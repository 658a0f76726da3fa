package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinMarks covers the combining diacritical marks block. Only these are
// stripped during folding; Devanagari matras are combining marks too and
// must survive, so a blanket Mn removal would corrupt Hindi text.
var latinMarks = runes.In(&unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
})

var foldChain = transform.Chain(norm.NFD, runes.Remove(latinMarks), norm.NFC)

// Fold lower-cases s and strips Latin diacritics, so "Pathān rōad" matches
// the keyword "road". Transform failures fall back to plain lower-casing.
func Fold(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Tokenize splits folded text into word tokens. Anything that is not a
// letter or digit separates tokens, so punctuation never blocks a match.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
