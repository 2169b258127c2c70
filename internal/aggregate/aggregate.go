// Package aggregate reduces per-term match results into a risk report.
package aggregate

import (
	"fmt"

	"github.com/scbrown/tmcheck/internal/analyze"
	"github.com/scbrown/tmcheck/internal/model"
)

// DefaultMaxDetails caps the details list of a report.
const DefaultMaxDetails = 5

// Registration statuses carried by findings.
const (
	Registered = "REGISTERED"
	Pending    = "PENDING"
	Clear      = "CLEAR"
)

// Finding is one term/trademark pair ready for aggregation.
type Finding struct {
	Term               string
	Trademark          string
	Status             string
	Similarity         model.Similarity
	Severity           model.Severity
	Owner              string
	RegistrationNumber string
}

// FromResult converts a match result into a finding. Similarity is computed
// between the queried term and the matched trademark; a result without a
// trademark is compared against its own term. Heuristic results are always
// low similarity so they never raise the report status.
func FromResult(r model.MatchResult) Finding {
	f := Finding{
		Term:               r.Term,
		Trademark:          r.Trademark,
		Severity:           r.Severity,
		Owner:              r.Owner,
		RegistrationNumber: r.RegistrationNumber,
	}
	switch r.Status {
	case model.StatusConflict:
		f.Status = Registered
	case model.StatusWarning:
		f.Status = Pending
	default:
		f.Status = Clear
	}
	term := model.Normalize(r.Term)
	mark := r.Trademark
	if mark == "" {
		mark = term
	}
	f.Similarity = analyze.Classify(term, mark)
	if r.Source == model.SourceHeuristic || r.CachedFrom == model.SourceHeuristic {
		f.Similarity = model.SimilarityLow
	}
	return f
}

// FromResults converts every non-clear result.
func FromResults(results []model.MatchResult) []Finding {
	var out []Finding
	for _, r := range results {
		if r.IsClear() {
			continue
		}
		out = append(out, FromResult(r))
	}
	return out
}

// Key identifies a trademark registration for deduplication.
func (f Finding) Key() string {
	return f.Trademark + "-" + f.RegistrationNumber
}

// Dedupe collapses findings that share a Key, keeping the one with the
// highest similarity rank. Output follows first-seen order of each key.
// Ties keep the earlier finding.
func Dedupe(findings []Finding) []Finding {
	pos := make(map[string]int, len(findings))
	var out []Finding
	for _, f := range findings {
		i, seen := pos[f.Key()]
		if !seen {
			pos[f.Key()] = len(out)
			out = append(out, f)
			continue
		}
		if f.Similarity.Rank() > out[i].Similarity.Rank() {
			out[i] = f
		}
	}
	return out
}

func highRisk(f Finding) bool {
	return f.Status == Registered && f.Similarity.Rank() >= model.SimilarityHigh.Rank()
}

func mediumRegistered(f Finding) bool {
	return f.Status == Registered && f.Similarity == model.SimilarityMedium
}

func pendingRisk(f Finding) bool {
	return f.Status == Pending && f.Similarity.Rank() >= model.SimilarityHigh.Rank()
}

// Aggregate partitions findings into high and medium risk and builds the
// report. Details list high-risk findings, then registered medium-similarity
// ones, then pending ones, each group in input order, truncated to limit
// (DefaultMaxDetails when limit <= 0).
func Aggregate(findings []Finding, limit int) model.Report {
	if limit <= 0 {
		limit = DefaultMaxDetails
	}
	var high, medium, pending []Finding
	for _, f := range findings {
		switch {
		case highRisk(f):
			high = append(high, f)
		case mediumRegistered(f):
			medium = append(medium, f)
		case pendingRisk(f):
			pending = append(pending, f)
		}
	}
	medium = append(medium, pending...)

	r := model.Report{Details: []model.Detail{}}
	switch {
	case len(high) > 0:
		r.Status = model.RiskRisk
		r.Message = fmt.Sprintf("Found %d registered trademark(s) with high similarity", len(high))
	case len(medium) > 0:
		r.Status = model.RiskWarning
		r.Message = fmt.Sprintf("Found %d potential trademark issue(s)", len(medium))
	default:
		r.Status = model.RiskClear
		r.Message = "No trademark conflicts found"
	}
	for _, f := range append(high, medium...) {
		if len(r.Details) == limit {
			break
		}
		r.Details = append(r.Details, f.detail())
	}
	return r
}

// Results is the common path: convert, dedupe and aggregate.
func Results(results []model.MatchResult, limit int) model.Report {
	return Aggregate(Dedupe(FromResults(results)), limit)
}

func (f Finding) detail() model.Detail {
	return model.Detail{
		Term:               f.Term,
		Trademark:          f.Trademark,
		Status:             f.Status,
		Similarity:         f.Similarity,
		Severity:           f.Severity,
		Owner:              f.Owner,
		RegistrationNumber: f.RegistrationNumber,
	}
}
