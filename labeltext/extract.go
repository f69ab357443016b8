// Package labeltext pulls WiFi credentials out of free-form text, such as the
// OCR output of a router sticker or a printed note.
package labeltext

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shazow/wifisnap/wifi"
)

// Extractor matches text against a compiled Table. It is safe for concurrent use.
type Extractor struct {
	ssid     []*regexp.Regexp
	password []*regexp.Regexp
	keywords []Keyword

	// labelPrefix matches a value that is itself a "label:" segment.
	labelPrefix *regexp.Regexp
	// cut matches the start of a second "label: value" segment on the same line.
	cut *regexp.Regexp
}

var pairPattern = regexp.MustCompile(`([^:：\n]+)[:：][ \t]*([^/\n]+?)[ \t]*(?:/|\n)[ \t]*([^:：\n]+)[:：][ \t]*([^\n]+)`)

var spaces = regexp.MustCompile(`\s+`)

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"‘", "’"},
	{"「", "」"},
	{"『", "』"},
}

var defaultExtractor = MustNewExtractor(DefaultTable())

// Default returns the Extractor for DefaultTable.
func Default() *Extractor {
	return defaultExtractor
}

// Extract runs the default Extractor over text.
func Extract(text string) (wifi.Credentials, bool) {
	return defaultExtractor.Extract(text)
}

// MustNewExtractor is like NewExtractor but panics if the table is invalid.
func MustNewExtractor(t Table) *Extractor {
	e, err := NewExtractor(t)
	if err != nil {
		panic(err)
	}
	return e
}

// NewExtractor compiles every rule in t.
func NewExtractor(t Table) (*Extractor, error) {
	e := &Extractor{}
	var alternates []string
	for _, r := range t.Rules {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			return nil, fmt.Errorf("%s rule: empty label", r.Lang)
		}
		re, err := compileLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%s rule %q: %w", r.Lang, label, err)
		}
		switch r.Field {
		case FieldSSID:
			e.ssid = append(e.ssid, re)
		case FieldPassword:
			e.password = append(e.password, re)
		default:
			return nil, fmt.Errorf("%s rule %q: unknown field %s", r.Lang, label, r.Field)
		}
		alternates = append(alternates, labelPattern(label))
	}
	for _, k := range t.Keywords {
		word := strings.ToLower(strings.TrimSpace(k.Word))
		if word == "" {
			return nil, fmt.Errorf("%s keyword: empty word", k.Lang)
		}
		if k.Field != FieldSSID && k.Field != FieldPassword {
			return nil, fmt.Errorf("%s keyword %q: unknown field %s", k.Lang, word, k.Field)
		}
		e.keywords = append(e.keywords, Keyword{Lang: k.Lang, Field: k.Field, Word: word})
		alternates = append(alternates, labelPattern(word))
	}
	if len(e.ssid) == 0 {
		return nil, errors.New("table has no ssid rules")
	}

	// Longest first so that no alternate shadows a longer one.
	sort.SliceStable(alternates, func(i, j int) bool {
		return len(alternates[i]) > len(alternates[j])
	})
	known := strings.Join(alternates, "|")

	var err error
	e.labelPrefix, err = regexp.Compile(`(?i)^(?:` + known + `)[ \t]*[:：]`)
	if err != nil {
		return nil, err
	}
	e.cut, err = regexp.Compile(`(?i)[ \t]+/[ \t]+[^/:：\n]+[:：]|(?:[ \t]+|[ \t]*\|[ \t]*)(?:` + known + `)[ \t]*[:：]`)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func labelPattern(label string) string {
	return spaces.ReplaceAllString(regexp.QuoteMeta(label), `[ \t]+`)
}

// compileLabel builds the pattern for one label: a boundary before the label
// unless it is CJK, then a separator, then the value up to the end of line.
// CJK labels may be followed directly by the value.
func compileLabel(label string) (*regexp.Regexp, error) {
	if isCJK(label) {
		return regexp.Compile(`(?i)` + labelPattern(label) + `[ \t]*[:：]?[ \t]*([^\n]+)`)
	}
	return regexp.Compile(`(?i)(?:^|[^\p{L}\p{N}_])` + labelPattern(label) + `(?:[ \t]*[:：][ \t]*|[ \t]+)([^\n]+)`)
}

func isCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}

// Extract returns the credentials found in text.
//
// The first SSID rule with an acceptable value wins, then the first password
// rule; a missing password is an empty one. When no SSID rule matches, an
// unlabeled "label: value / label: value" pair is tried, and accepted only if
// one side reads as a network name and the other as a password.
func (e *Extractor) Extract(text string) (wifi.Credentials, bool) {
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)

	if ssid, ok := e.first(e.ssid, text); ok {
		password, _ := e.first(e.password, text)
		return wifi.Credentials{SSID: ssid, Password: password, Security: wifi.SecurityWPA}, true
	}

	return e.pair(text)
}

func (e *Extractor) first(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, ok := e.accept(m[1]); ok {
				return v, true
			}
		}
	}
	return "", false
}

func (e *Extractor) accept(raw string) (string, bool) {
	if loc := e.cut.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}
	v := trimQuotes(strings.TrimSpace(raw))
	if v == "" || e.labelPrefix.MatchString(v) {
		return "", false
	}
	return v, true
}

// pair tries the unlabeled heuristic from each line in turn.
func (e *Extractor) pair(text string) (wifi.Credentials, bool) {
	for off := 0; off < len(text); {
		m := pairPattern.FindStringSubmatchIndex(text[off:])
		if m == nil {
			break
		}
		sub := text[off:]
		if c, ok := e.classifyPair(sub[m[2]:m[3]], sub[m[4]:m[5]], sub[m[6]:m[7]], sub[m[8]:m[9]]); ok {
			return c, true
		}
		next := strings.IndexByte(sub[m[0]:], '\n')
		if next < 0 {
			break
		}
		off += m[0] + next + 1
	}
	return wifi.Credentials{}, false
}

func (e *Extractor) classifyPair(label1, value1, label2, value2 string) (wifi.Credentials, bool) {
	var c wifi.Credentials
	var haveSSID, havePassword bool
	for _, side := range [][2]string{{label1, value1}, {label2, value2}} {
		field, ok := e.classify(side[0])
		if !ok {
			continue
		}
		value := trimQuotes(strings.TrimSpace(side[1]))
		if value == "" {
			continue
		}
		switch field {
		case FieldSSID:
			c.SSID, haveSSID = value, true
		case FieldPassword:
			c.Password, havePassword = value, true
		}
	}
	if !haveSSID || !havePassword {
		return wifi.Credentials{}, false
	}
	c.Security = wifi.SecurityWPA
	return c, true
}

const compoundWordLen = 6

// classify checks password words first, so "Network key" is a password.
func (e *Extractor) classify(label string) (Field, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, field := range []Field{FieldPassword, FieldSSID} {
		for _, k := range e.keywords {
			if k.Field == field && containsWord(label, k.Word) {
				return field, true
			}
		}
	}
	return FieldSSID, false
}

// containsWord reports whether word occurs in s. Short words must start a
// word, so "name" is not found in "username"; CJK words and words of
// compoundWordLen runes or more, like the "schlüssel" of "netzwerkschlüssel",
// match anywhere.
func containsWord(s, word string) bool {
	if isCJK(word) || utf8.RuneCountInString(word) >= compoundWordLen {
		return strings.Contains(s, word)
	}
	for i := 0; i <= len(s)-len(word); {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return false
		}
		j += i
		if j == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:j])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[j:])
		i = j + size
	}
	return false
}

func trimQuotes(s string) string {
	for _, q := range quotePairs {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			return strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
		}
	}
	return s
}
