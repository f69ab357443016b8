// Package match ranks visible networks by how closely their SSID resembles a
// network name read off a label.
package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/shazow/wifisnap/wifi"
)

// DefaultThreshold lets a single typo through in names of four or more
// characters, and keeps unrelated names out.
const DefaultThreshold = 0.6

// Result is a catalog entry with its similarity to the target.
type Result struct {
	Network wifi.Network `json:"network"`
	Score   float64      `json:"score"`
}

// Matcher ranks candidates whose score is at least Threshold.
type Matcher struct {
	Threshold float64
}

// Default uses DefaultThreshold.
var Default = Matcher{Threshold: DefaultThreshold}

// New returns a Matcher with threshold clamped to [0, 1].
func New(threshold float64) Matcher {
	switch {
	case threshold < 0:
		threshold = 0
	case threshold > 1:
		threshold = 1
	}
	return Matcher{Threshold: threshold}
}

// Rank runs the Default matcher.
func Rank(target string, catalog []wifi.Network) []Result {
	return Default.Rank(target, catalog)
}

// Best runs the Default matcher.
func Best(target string, catalog []wifi.Network) (wifi.Network, bool) {
	return Default.Best(target, catalog)
}

// Rank scores every catalog entry against target and returns those at or
// above the threshold, best first. Equal scores keep catalog order.
//
// At or below DefaultThreshold, names of two or three characters also pass
// with a single edit, which the ratio alone would reject for two-character
// names such as "AC" and "AB".
func (m Matcher) Rank(target string, catalog []wifi.Network) []Result {
	results := []Result{}
	if strings.TrimSpace(target) == "" || len(catalog) == 0 {
		return results
	}
	for _, n := range catalog {
		score := Similarity(target, n.SSID)
		if score < m.Threshold && !(m.Threshold <= DefaultThreshold && shortTypo(target, n.SSID)) {
			continue
		}
		results = append(results, Result{Network: n, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Best returns the top ranked network.
func (m Matcher) Best(target string, catalog []wifi.Network) (wifi.Network, bool) {
	results := m.Rank(target, catalog)
	if len(results) == 0 {
		return wifi.Network{}, false
	}
	return results[0].Network, true
}

// Similarity scores a and b in [0, 1]. Both are NFKC normalized first, which
// folds fullwidth OCR output onto ASCII. Case differences cost a little, so an
// exact match always outranks a case-insensitive one.
func Similarity(a, b string) float64 {
	a, b = norm.NFKC.String(a), norm.NFKC.String(b)
	if a == b {
		return 1
	}
	fold := cases.Fold()
	folded := ratio(fold.String(a), fold.String(b))
	return 0.9*folded + 0.1*ratio(a, b)
}

func ratio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// shortTypo reports whether a and b are both two or three characters long and
// one case-insensitive edit apart.
func shortTypo(a, b string) bool {
	fold := cases.Fold()
	a, b = fold.String(norm.NFKC.String(a)), fold.String(norm.NFKC.String(b))
	for _, s := range []string{a, b} {
		if n := utf8.RuneCountInString(s); n < 2 || n > 3 {
			return false
		}
	}
	return levenshtein.ComputeDistance(a, b) <= 1
}
