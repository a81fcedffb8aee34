package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize canonicalizes an item name for comparison.
//
// The name is lower-cased, whitespace runs collapse to a single space, and
// punctuation other than '-' and '&' is dropped. The conjunction "and" and
// bare ampersands are then unified to " & ". Normalize is idempotent.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	// A Caser is stateful; one per call keeps Normalize safe for concurrent use.
	s := cases.Lower(language.Und).String(name)
	s = collapseSpace(s)
	s = strings.Map(keepRune, s)

	// Unifying conjunctions can expose a new " and " (e.g. "x and&y"), so
	// repeat until the string settles.
	for {
		next := strings.ReplaceAll(s, " and ", " & ")
		next = strings.ReplaceAll(next, "&", " & ")
		next = collapseSpace(next)
		if next == s {
			return s
		}
		s = next
	}
}

// collapseSpace replaces every run of whitespace with one space and trims
// both ends.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// isSpace is unicode.IsSpace plus the information separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// keepRune keeps word characters, whitespace, '-' and '&'.
func keepRune(r rune) rune {
	switch {
	case unicode.IsLetter(r), unicode.IsNumber(r), r == '_':
		return r
	case isSpace(r), r == '-', r == '&':
		return r
	}
	return -1
}
