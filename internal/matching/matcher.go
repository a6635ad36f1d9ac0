package matching

import "sort"

// MatchType classifies how confidently a name resolved to an existing
// product.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchFuzzy    MatchType = "fuzzy"
	MatchSemantic MatchType = "semantic"
	MatchNone     MatchType = "none"
)

// AbbreviationConfidence is assigned when a name only matches after
// shorthand expansion. Strong signal, but not byte-identical, so it stays
// below the exact match's 1.0.
const AbbreviationConfidence = 0.95

// Thresholds holds the classification cutoffs.
type Thresholds struct {
	Fuzzy    float64 // >= Fuzzy -> fuzzy match
	Semantic float64 // >= Semantic with equal category -> semantic match
}

// DefaultThresholds returns the production cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Fuzzy: 0.85, Semantic: 0.70}
}

// Suggestion is a lower-confidence candidate surfaced for review UIs.
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Result is the outcome of classifying one query against a candidate set.
// BestIndex points into the candidate slice, -1 when no candidate scored.
type Result struct {
	Matched     bool
	Type        MatchType
	Confidence  float64
	BestIndex   int
	MatchedName string
	Suggestions []Suggestion
}

// suggestionFloor and suggestionLimit bound the review-suggestion list.
const (
	suggestionFloor = 0.5
	suggestionLimit = 5
)

// ClassifyAgainst matches one query name against an ordered candidate
// set. Stages: byte-identical normalized form (exact, 1.0), shorthand
// expansion hit (fuzzy, 0.95), then weighted similarity scoring with the
// single best candidate classified against the thresholds. Ties keep the
// first-seen candidate.
func ClassifyAgainst(query string, candidates []string, th Thresholds) Result {
	qfp := ComputeFingerprint(query)

	for i, cand := range candidates {
		if Normalize(cand) == qfp.NormalizedName {
			return Result{
				Matched:     true,
				Type:        MatchExact,
				Confidence:  1.0,
				BestIndex:   i,
				MatchedName: cand,
			}
		}
	}

	if expanded := ExpandAbbreviations(query); expanded != qfp.NormalizedName {
		for i, cand := range candidates {
			if Normalize(cand) == expanded {
				return Result{
					Matched:     true,
					Type:        MatchFuzzy,
					Confidence:  AbbreviationConfidence,
					BestIndex:   i,
					MatchedName: cand,
				}
			}
		}
	}

	best := -1
	bestScore := 0.0
	var bestFP Fingerprint
	var suggestions []Suggestion

	for i, cand := range candidates {
		cfp := ComputeFingerprint(cand)
		score := FingerprintSimilarity(qfp, cfp)
		if score > bestScore {
			bestScore = score
			best = i
			bestFP = cfp
		}
		if score > suggestionFloor {
			suggestions = append(suggestions, Suggestion{Name: cand, Score: score})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}

	res := Result{
		Type:        MatchNone,
		Confidence:  bestScore,
		BestIndex:   best,
		Suggestions: suggestions,
	}
	if best < 0 {
		return res
	}

	sameCategory := qfp.Category != "" && qfp.Category == bestFP.Category
	matchType := Classify(bestScore, sameCategory, th)
	if matchType == MatchNone {
		return res
	}

	res.Matched = true
	res.Type = matchType
	res.MatchedName = candidates[best]
	return res
}

// Classify maps a similarity score to a match type.
func Classify(score float64, sameCategory bool, th Thresholds) MatchType {
	switch {
	case score >= th.Fuzzy:
		return MatchFuzzy
	case score >= th.Semantic && sameCategory:
		return MatchSemantic
	default:
		return MatchNone
	}
}
