package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scbrown/tmcheck/internal/model"
)

func conflict(term, mark string, sev model.Severity) model.MatchResult {
	return model.MatchResult{
		Term: term, Status: model.StatusConflict, Severity: sev,
		Trademark: mark, Owner: "Owner of " + mark, RegistrationNumber: "100" + mark,
		Source: model.SourceDictionary,
	}
}

func warning(term, mark string) model.MatchResult {
	return model.MatchResult{
		Term: term, Status: model.StatusWarning, Severity: model.SeverityMedium,
		Trademark: mark, RegistrationNumber: "200" + mark, Source: model.SourceDictionary,
	}
}

func TestFromResult(t *testing.T) {
	tests := []struct {
		name   string
		in     model.MatchResult
		status string
		sim    model.Similarity
	}{
		{"exact conflict", conflict("nike", "NIKE", model.SeverityHigh), Registered, model.SimilarityExact},
		{"term as typed", conflict(" Nike ", "NIKE", model.SeverityHigh), Registered, model.SimilarityExact},
		{"containment warning", warning("nike air", "NIKE"), Pending, model.SimilarityHigh},
		{"medium conflict", conflict("prada", "PANDA", model.SeverityMedium), Registered, model.SimilarityMedium},
		{"clear", model.Clear("pottery", model.SourceAPI), Clear, model.SimilarityExact},
		{"heuristic", model.MatchResult{Term: "zorbly", Status: model.StatusWarning, Severity: model.SeverityLow,
			Trademark: "ZORBLY", Source: model.SourceHeuristic}, Pending, model.SimilarityLow},
		{"cached heuristic", model.MatchResult{Term: "zorbly", Status: model.StatusWarning, Severity: model.SeverityLow,
			Trademark: "ZORBLY", Source: model.SourceCache, CachedFrom: model.SourceHeuristic}, Pending, model.SimilarityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FromResult(tt.in)
			assert.Equal(t, tt.status, f.Status)
			assert.Equal(t, tt.sim, f.Similarity)
			assert.Equal(t, tt.in.Term, f.Term)
			assert.Equal(t, tt.in.Severity, f.Severity)
		})
	}
}

func TestFromResultsSkipsClear(t *testing.T) {
	fs := FromResults([]model.MatchResult{
		model.Clear("pottery", model.SourceDictionary),
		conflict("nike", "NIKE", model.SeverityHigh),
	})
	require.Len(t, fs, 1)
	assert.Equal(t, "nike", fs[0].Term)
}

func TestAggregateHighRiskDominates(t *testing.T) {
	r := Results([]model.MatchResult{
		warning("nike air", "NIKE AIR MAX"),
		conflict("nike", "NIKE", model.SeverityHigh),
	}, 0)
	assert.Equal(t, model.RiskRisk, r.Status)
	assert.Equal(t, "Found 1 registered trademark(s) with high similarity", r.Message)
	require.Len(t, r.Details, 2)
	assert.Equal(t, "NIKE", r.Details[0].Trademark, "high-risk entries come first")
	assert.Equal(t, Pending, r.Details[1].Status)
}

func TestAggregateWarning(t *testing.T) {
	r := Aggregate([]Finding{
		{Term: "a", Trademark: "A", Status: Pending, Similarity: model.SimilarityHigh},
		{Term: "b", Trademark: "B", Status: Registered, Similarity: model.SimilarityMedium},
		{Term: "c", Trademark: "C", Status: Pending, Similarity: model.SimilarityMedium},
		{Term: "d", Trademark: "D", Status: Registered, Similarity: model.SimilarityLow},
	}, 5)
	assert.Equal(t, model.RiskWarning, r.Status)
	assert.Equal(t, "Found 2 potential trademark issue(s)", r.Message)
	require.Len(t, r.Details, 2)
	assert.Equal(t, "B", r.Details[0].Trademark, "registered medium before pending")
	assert.Equal(t, "A", r.Details[1].Trademark)
}

func TestAggregateClear(t *testing.T) {
	r := Aggregate(nil, 5)
	assert.Equal(t, model.RiskClear, r.Status)
	assert.Equal(t, "No trademark conflicts found", r.Message)
	assert.NotNil(t, r.Details)
	assert.Empty(t, r.Details)

	r = Aggregate([]Finding{{Trademark: "X", Status: Registered, Similarity: model.SimilarityLow}}, 5)
	assert.Equal(t, model.RiskClear, r.Status, "low similarity is not a risk")
}

func TestAggregateCapsDetails(t *testing.T) {
	var fs []Finding
	for i := range 8 {
		fs = append(fs, Finding{Trademark: fmt.Sprintf("T%d", i), Status: Registered, Similarity: model.SimilarityExact})
	}
	r := Aggregate(fs, 0)
	assert.Equal(t, "Found 8 registered trademark(s) with high similarity", r.Message)
	assert.Len(t, r.Details, DefaultMaxDetails)
	assert.Equal(t, "T0", r.Details[0].Trademark)

	assert.Len(t, Aggregate(fs, 2).Details, 2)
}

func TestDedupeKeepsHigherSimilarity(t *testing.T) {
	fs := Dedupe([]Finding{
		{Term: "nikey", Trademark: "NIKE", RegistrationNumber: "1", Similarity: model.SimilarityMedium},
		{Term: "adidas", Trademark: "ADIDAS", RegistrationNumber: "2", Similarity: model.SimilarityExact},
		{Term: "nike", Trademark: "NIKE", RegistrationNumber: "1", Similarity: model.SimilarityExact},
	})
	require.Len(t, fs, 2)
	assert.Equal(t, "nike", fs[0].Term, "exact replaces medium in the first-seen slot")
	assert.Equal(t, model.SimilarityExact, fs[0].Similarity)
	assert.Equal(t, "ADIDAS", fs[1].Trademark)
}

func TestDedupeTieKeepsFirst(t *testing.T) {
	fs := Dedupe([]Finding{
		{Term: "first", Trademark: "LEGO", RegistrationNumber: "9", Similarity: model.SimilarityHigh},
		{Term: "second", Trademark: "LEGO", RegistrationNumber: "9", Similarity: model.SimilarityHigh},
		{Term: "other", Trademark: "LEGO", RegistrationNumber: "10", Similarity: model.SimilarityLow},
	})
	require.Len(t, fs, 2)
	assert.Equal(t, "first", fs[0].Term)
	assert.Equal(t, "other", fs[1].Term, "different registration number is a different key")
}
