package matching

import (
	"regexp"
	"sort"
	"strings"
)

// Fingerprint is the structured signal bundle derived from one product
// name. Purely a function of its input; recomputed on demand, never
// stored. Every field except NormalizedName is best-effort and may be
// empty.
type Fingerprint struct {
	RawName        string
	NormalizedName string
	Tokens         []string
	Brand          string
	Size           string
	Unit           string
	Category       string
	BaseProduct    string
}

// sizeRe matches quantity-plus-unit patterns against the raw (not
// normalized) name so decimal separators and unit abbreviations survive:
// "500g", "1,5 L", "0.5 litre".
var sizeRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(` + unitAlternation() + `)\b`)

func unitAlternation() string {
	keys := make([]string, 0, len(unitSynonyms))
	for k := range unitSynonyms {
		keys = append(keys, k)
	}
	// Longest first so "litre" wins over "l" and "kilo" over "kg"-less "k".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return strings.Join(keys, "|")
}

// ComputeFingerprint derives the full signal bundle for a raw name.
func ComputeFingerprint(rawName string) Fingerprint {
	normalized := Normalize(rawName)

	fp := Fingerprint{
		RawName:        rawName,
		NormalizedName: normalized,
		Tokens:         tokenize(normalized),
	}

	for _, brand := range knownBrands {
		if containsWords(normalized, brand) {
			fp.Brand = brand
			break
		}
	}

	if m := sizeRe.FindStringSubmatch(rawName); m != nil {
		fp.Size = strings.ReplaceAll(m[1], ",", ".")
		fp.Unit = unitSynonyms[strings.ToLower(m[2])]
	}

	for _, entry := range categoryKeywords {
		if containsWords(normalized, entry.keyword) {
			fp.Category = entry.category
			break
		}
	}

	fp.BaseProduct = baseProduct(normalized)
	return fp
}

// tokenize splits a normalized name into tokens, discarding single-rune
// leftovers.
func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 1 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// containsWords reports whether phrase appears in normalized on word
// boundaries. Plain substring matching would let "dano" fire inside
// "danone" or a misspelled "danon" and poison the brand signal.
func containsWords(normalized, phrase string) bool {
	return strings.Contains(" "+normalized+" ", " "+phrase+" ")
}

// baseProduct strips every known brand and every size/unit token from a
// normalized name, leaving the generic product words used for the
// brand-independent comparison.
func baseProduct(normalized string) string {
	s := normalized
	for _, brand := range knownBrands {
		if containsWords(s, brand) {
			s = strings.ReplaceAll(" "+s+" ", " "+brand+" ", " ")
			s = strings.TrimSpace(s)
		}
	}

	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if isSizeToken(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// isSizeToken reports whether a normalized token carries only quantity
// information: a bare number, a number glued to a unit ("500g"), or a
// unit word on its own.
func isSizeToken(tok string) bool {
	if tok == "" {
		return false
	}
	if _, ok := unitSynonyms[tok]; ok {
		return true
	}

	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	if i == len(tok) {
		return true
	}
	_, ok := unitSynonyms[tok[i:]]
	return ok
}
