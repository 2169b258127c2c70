package analyze

import (
	"sort"
	"strings"
	"unicode"
)

// Suggestion pairs a known trademark term with its similarity to a query.
type Suggestion struct {
	Term       string  `json:"term"`
	Score      float64 `json:"score"`
	Similarity string  `json:"similarity"`
}

// DefaultThreshold is the minimum similarity score for a suggestion to be returned.
const DefaultThreshold = 0.5

// DefaultTopN is the maximum number of suggestions returned.
const DefaultTopN = 5

// Suggest returns known terms similar to term, ranked by similarity score.
func Suggest(term string, known []string) []Suggestion {
	return SuggestN(term, known, DefaultTopN, DefaultThreshold)
}

// SuggestN returns up to topN known terms similar to term, with score >= threshold.
// Terms that contain the query (or are contained by it) always qualify.
func SuggestN(term string, known []string, topN int, threshold float64) []Suggestion {
	q := normalize(term)
	if q == "" || len(known) == 0 {
		return nil
	}

	var results []Suggestion
	for _, k := range known {
		nk := normalize(k)
		if nk == "" {
			continue
		}
		tier := Classify(q, nk)
		score := Score(q, nk)
		if tier.Rank() >= 2 && score < threshold {
			// Containment is a strong signal even when the lengths differ a lot.
			score = threshold
		}
		if score >= threshold {
			results = append(results, Suggestion{Term: k, Score: score, Similarity: string(tier)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// normalize lowercases s and collapses punctuation and whitespace runs into
// single spaces, so "Coca-Cola" and "coca cola" compare equal.
func normalize(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return strings.Join(fields, " ")
}
