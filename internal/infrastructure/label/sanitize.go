package label

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sanitize folds accents and keeps only printable ASCII. The ZPL command
// prefixes ^ and ~ and the field block line break escape \ are removed.
// Embedded line breaks and tabs become spaces.
func Sanitize(s string) string {
	// transform chains keep state, so one is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case r == '^' || r == '~' || r == '\\':
		case r < 0x20 || r > 0x7e:
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// titleCase capitalizes each word without lowering the rest, so "BMW" stays.
func titleCase(s string) string {
	return cases.Title(language.AmericanEnglish, cases.NoLower).String(s)
}
