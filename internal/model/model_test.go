package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityRank(t *testing.T) {
	assert.Greater(t, SimilarityExact.Rank(), SimilarityHigh.Rank())
	assert.Greater(t, SimilarityHigh.Rank(), SimilarityMedium.Rank())
	assert.Greater(t, SimilarityMedium.Rank(), SimilarityLow.Rank())
	assert.Equal(t, 0, Similarity("bogus").Rank())
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, SeverityNone.Valid())
	assert.False(t, Severity("extreme").Valid())
}

func TestClear(t *testing.T) {
	r := Clear("Pottery", SourceDictionary)
	assert.Equal(t, "Pottery", r.Term)
	assert.Equal(t, StatusClear, r.Status)
	assert.Equal(t, SeverityNone, r.Severity)
	assert.True(t, r.IsClear())
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Nike ":     "nike",
		"HELLO Kitty": "hello kitty",
		"":            "",
		"\tzelda\n":   "zelda",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestMatchResultJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Clear("pottery", SourceAPI))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"status":"clear"`)
	assert.Contains(t, out, `"severity":"none"`)
	assert.NotContains(t, out, "trademark")
	assert.NotContains(t, out, "api_data")
}
