package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownTerms = []string{"nike", "adidas", "disney", "pokemon", "hello kitty", "star wars", "starbucks"}

func TestSuggestExactMatch(t *testing.T) {
	results := Suggest("Nike", knownTerms)
	require.NotEmpty(t, results)
	assert.Equal(t, "nike", results[0].Term)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "exact", results[0].Similarity)
}

func TestSuggestTypo(t *testing.T) {
	results := Suggest("pokeman", knownTerms)
	require.NotEmpty(t, results)
	assert.Equal(t, "pokemon", results[0].Term)
}

func TestSuggestPunctuationInsensitive(t *testing.T) {
	results := Suggest("Hello-Kitty", knownTerms)
	require.NotEmpty(t, results)
	assert.Equal(t, "hello kitty", results[0].Term)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSuggestContainmentQualifies(t *testing.T) {
	results := SuggestN("star", knownTerms, 10, 0.6)
	var names []string
	for _, r := range results {
		names = append(names, r.Term)
	}
	assert.Contains(t, names, "star wars")
	assert.Contains(t, names, "starbucks")
}

func TestSuggestBelowThreshold(t *testing.T) {
	assert.Empty(t, Suggest("xq", []string{"completely different"}))
}

func TestSuggestEmpty(t *testing.T) {
	assert.Nil(t, Suggest("", knownTerms))
	assert.Nil(t, Suggest("nike", nil))
	assert.Nil(t, Suggest("   ", knownTerms))
}

func TestSuggestTopN(t *testing.T) {
	known := []string{"aa", "ab", "ac", "ad", "ae", "af", "ag"}
	assert.LessOrEqual(t, len(SuggestN("aa", known, 3, 0.0)), 3)
}

func TestSuggestSortedByScore(t *testing.T) {
	results := SuggestN("stars", knownTerms, 0, 0.0)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Coca-Cola":     "coca cola",
		"  hello kitty": "hello kitty",
		"I'm Lovin' It": "i'm lovin' it",
		"":              "",
		"A.B.C":         "a b c",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalize(in), "normalize(%q)", in)
	}
}
