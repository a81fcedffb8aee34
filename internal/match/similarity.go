package match

import "github.com/pmezard/go-difflib/difflib"

// FuzzyThreshold is the minimum similarity ratio accepted as a fuzzy match.
const FuzzyThreshold = 0.85

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1],
// computed per rune: 2*M / (len(a)+len(b)) where M is the number of runes
// in matching blocks. Two empty strings score 1.0.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
