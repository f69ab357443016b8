package labeltext

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// rulesFile is the TOML layout accepted by LoadRules:
//
//	[[rule]]
//	lang = "it"
//	field = "password"
//	label = "Chiave"
//
//	[[keyword]]
//	lang = "it"
//	field = "ssid"
//	word = "rete"
//
// Field is a pointer so a missing field is an error rather than "ssid".
type rulesFile struct {
	Rules []struct {
		Lang  string `toml:"lang"`
		Field *Field `toml:"field"`
		Label string `toml:"label"`
	} `toml:"rule"`
	Keywords []struct {
		Lang  string `toml:"lang"`
		Field *Field `toml:"field"`
		Word  string `toml:"word"`
	} `toml:"keyword"`
}

// LoadRules reads extra rules from r and returns them appended after the
// defaults. A nil reader returns the defaults.
func LoadRules(r io.Reader) (Table, error) {
	t := DefaultTable()
	if r == nil {
		return t, nil
	}

	var f rulesFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return Table{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Table{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	var extra Table
	for i, rule := range f.Rules {
		if rule.Field == nil {
			return Table{}, fmt.Errorf("rule %d (%q): missing field", i+1, rule.Label)
		}
		extra.Rules = append(extra.Rules, Rule{Lang: rule.Lang, Field: *rule.Field, Label: rule.Label})
	}
	for i, k := range f.Keywords {
		if k.Field == nil {
			return Table{}, fmt.Errorf("keyword %d (%q): missing field", i+1, k.Word)
		}
		extra.Keywords = append(extra.Keywords, Keyword{Lang: k.Lang, Field: *k.Field, Word: k.Word})
	}
	return t.Append(extra), nil
}
