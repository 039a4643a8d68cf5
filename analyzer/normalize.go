package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, collapses whitespace runs to a single space,
// drops everything except letters, digits, whitespace and . , ! ? and trims.
// Whitespace is collapsed before stripping, so "a - b" keeps two spaces.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// cases.Caser carries state; one per call keeps Normalize goroutine safe.
	lower := cases.Lower(language.English).String(norm.NFKC.String(text))
	collapsed := strings.Join(strings.FieldsFunc(lower, unicode.IsSpace), " ")

	stripped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ':
			return r
		case r == '.', r == ',', r == '!', r == '?':
			return r
		}
		return -1
	}, collapsed)
	return strings.TrimSpace(stripped)
}

const terminators = ".,!?"

// tokens splits normalized text into words with surrounding punctuation
// removed.
func tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, terminators)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
