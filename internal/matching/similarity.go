package matching

// Signal weights for the combined score. The final score is divided by
// the weight actually accumulated, so a missing brand or category does
// not depress the result beyond its own share.
const (
	weightString   = 0.3
	weightToken    = 0.3
	weightBase     = 0.2
	weightBrand    = 0.1
	weightCategory = 0.1
)

// fuzzyTokenMinLen guards the edit-distance token comparison: short
// tokens produce too many accidental one-edit neighbours.
const fuzzyTokenMinLen = 4

// Similarity scores two raw product names in [0,1].
func Similarity(a, b string) float64 {
	return FingerprintSimilarity(ComputeFingerprint(a), ComputeFingerprint(b))
}

// FingerprintSimilarity scores two precomputed fingerprints. Callers that
// compare one query against many candidates should fingerprint the query
// once and use this directly.
func FingerprintSimilarity(fa, fb Fingerprint) float64 {
	if fa.NormalizedName == fb.NormalizedName {
		return 1.0
	}

	var score, weight float64

	score += weightString * editRatio(fa.NormalizedName, fb.NormalizedName)
	weight += weightString

	ta := comparisonTokens(fa)
	tb := comparisonTokens(fb)
	if len(ta) > 0 || len(tb) > 0 {
		score += weightToken * tokenJaccard(ta, tb)
		weight += weightToken
	}

	if fa.BaseProduct != "" && fb.BaseProduct != "" {
		score += weightBase * editRatio(fa.BaseProduct, fb.BaseProduct)
		weight += weightBase
	}

	// Brand and category weights are consumed whenever both sides carry
	// the signal, contributing zero on a mismatch.
	if fa.Brand != "" && fb.Brand != "" {
		if fa.Brand == fb.Brand {
			score += weightBrand
		}
		weight += weightBrand
	}
	if fa.Category != "" && fb.Category != "" {
		if fa.Category == fb.Category {
			score += weightCategory
		}
		weight += weightCategory
	}

	if weight == 0 {
		return 0
	}
	return score / weight
}

// editRatio converts Levenshtein distance to a similarity in [0,1].
func editRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the classic insert/delete/substitute edit distance
// with a two-row dynamic program.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// comparisonTokens returns the deduplicated token set used for the
// Jaccard signal. Pure quantity tokens ("500", "500g", "litre") are
// dropped: size is scored through its own fingerprint fields and would
// otherwise drown the product words on short names.
func comparisonTokens(fp Fingerprint) []string {
	seen := make(map[string]bool, len(fp.Tokens))
	tokens := make([]string, 0, len(fp.Tokens))
	for _, t := range fp.Tokens {
		if isSizeToken(t) || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens
}

// tokenJaccard computes |A∩B| / |A∪B| over token sets. Tokens match
// exactly, or within one edit when both are at least fuzzyTokenMinLen
// runes; receipt OCR routinely drops or swaps a single letter.
func tokenJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	used := make([]bool, len(b))
	intersection := 0
	for _, ta := range a {
		for i, tb := range b {
			if used[i] {
				continue
			}
			if tokensEqual(ta, tb) {
				used[i] = true
				intersection++
				break
			}
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokensEqual(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < fuzzyTokenMinLen || len(b) < fuzzyTokenMinLen {
		return false
	}
	diff := len(a) - len(b)
	if diff < -1 || diff > 1 {
		return false
	}
	return levenshtein(a, b) <= 1
}
