package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// Normalize produces the canonical comparison form of a product or store
// name: lowercase, diacritics stripped, everything outside [a-z0-9 ]
// replaced by a space, whitespace collapsed. Idempotent and total; any
// input (including empty) yields a string.
func Normalize(text string) string {
	s := strings.ToLower(text)

	// NFD decomposition + strip combining marks handles French accents
	// (é, è, à, ç) the same way regardless of source encoding.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ExpandAbbreviations rewrites receipt shorthand to full words, trying
// two-word abbreviations before single tokens. Input is normalized first;
// output is in normalized form.
func ExpandAbbreviations(text string) string {
	cleaned := Normalize(text)
	if full, ok := abbreviations[cleaned]; ok {
		return full
	}

	words := strings.Fields(cleaned)
	expanded := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		if i+1 < len(words) {
			if full, ok := abbreviations[words[i]+" "+words[i+1]]; ok {
				expanded = append(expanded, full)
				i++
				continue
			}
		}
		if full, ok := abbreviations[words[i]]; ok {
			expanded = append(expanded, full)
		} else {
			expanded = append(expanded, words[i])
		}
	}
	return strings.Join(expanded, " ")
}
