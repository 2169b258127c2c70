// Package analyze provides edit-distance and similarity scoring for trademark terms.
//
// Similarity tiers are not the bare 1 - distance/max_length ratio: Score
// adds small shared-prefix and shared-suffix bonuses before the tier
// thresholds apply, so pairs that differ only at one end move up a tier
// (book/boot is high, abcde/abcdx is high rather than medium).
package analyze

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/scbrown/tmcheck/internal/model"
)

// Similarity tier thresholds applied to Score.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.6
)

// Distance returns the Levenshtein edit distance between a and b, counting
// single-rune inserts, deletes and substitutions. It is case-sensitive.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Classify maps a pair of terms to a similarity tier. Comparison is
// case-insensitive: equal terms are exact, containment is high, and anything
// else is tiered by Score.
func Classify(a, b string) model.Similarity {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return model.SimilarityExact
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return model.SimilarityHigh
	}
	s := Score(la, lb)
	switch {
	case s > HighThreshold:
		return model.SimilarityHigh
	case s > MediumThreshold:
		return model.SimilarityMedium
	}
	return model.SimilarityLow
}

// Score computes a 0-1 similarity between two strings: normalized
// Levenshtein (1 - distance/max_length) plus small bonuses for a shared
// prefix (weight 0.1) and suffix (weight 0.05), capped at 1.
func Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	maxLen := max(len(ra), len(rb))
	lev := 1.0 - float64(Distance(a, b))/float64(maxLen)
	prefixBonus := 0.1 * float64(commonPrefixLen(ra, rb)) / float64(maxLen)
	suffixBonus := 0.05 * float64(commonSuffixLen(ra, rb)) / float64(maxLen)

	return min(lev+prefixBonus+suffixBonus, 1.0)
}

// commonPrefixLen returns the length of the common prefix of a and b.
func commonPrefixLen(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// commonSuffixLen returns the length of the common suffix of a and b.
func commonSuffixLen(a, b []rune) int {
	la, lb := len(a), len(b)
	n := min(la, lb)
	for i := 0; i < n; i++ {
		if a[la-1-i] != b[lb-1-i] {
			return i
		}
	}
	return n
}
