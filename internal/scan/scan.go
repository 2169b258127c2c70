// Package scan checks every text element of a page in one batch and builds
// per-element and page-level reports.
package scan

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scbrown/tmcheck/internal/aggregate"
	"github.com/scbrown/tmcheck/internal/extract"
	"github.com/scbrown/tmcheck/internal/highlight"
	"github.com/scbrown/tmcheck/internal/metrics"
	"github.com/scbrown/tmcheck/internal/model"
)

// Page risk levels.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// Batcher resolves a list of terms in input order.
type Batcher interface {
	Batch(ctx context.Context, terms []string) ([]model.MatchResult, error)
}

// Scanner runs page scans.
type Scanner struct {
	matcher    Batcher
	extractor  *extract.Extractor
	maxDetails int
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExtractor replaces the default term extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Scanner) { s.extractor = e }
}

// WithMaxDetails caps the details of each report.
func WithMaxDetails(n int) Option {
	return func(s *Scanner) { s.maxDetails = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics counts completed scans.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

// New creates a Scanner that resolves terms through m.
func New(m Batcher, opts ...Option) *Scanner {
	s := &Scanner{
		matcher:    m,
		extractor:  extract.New(),
		maxDetails: aggregate.DefaultMaxDetails,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan extracts terms from every element, resolves their union once and
// assembles the reports. If ctx is cancelled before the batch completes the
// scan returns ctx's error and no report.
func (s *Scanner) Scan(ctx context.Context, page model.Page) (model.PageReport, error) {
	texts := make([]string, len(page.Elements))
	terms := make([][]string, len(page.Elements))
	var union []string
	seen := make(map[string]bool)
	for i, el := range page.Elements {
		texts[i] = el.Text
		if el.HTML {
			texts[i] = extract.StripHTML(el.Text)
		}
		terms[i] = s.extractor.Extract(texts[i])
		for _, t := range terms[i] {
			if !seen[t] {
				seen[t] = true
				union = append(union, t)
			}
		}
	}

	results, err := s.matcher.Batch(ctx, union)
	if err != nil {
		return model.PageReport{}, err
	}
	byTerm := make(map[string]model.MatchResult, len(results))
	for i, t := range union {
		byTerm[t] = results[i]
	}

	rep := model.PageReport{
		ID:       uuid.NewString(),
		URL:      page.URL,
		Summary:  Summarize(results),
		Report:   aggregate.Results(results, s.maxDetails),
		Elements: make([]model.ElementReport, len(page.Elements)),
	}
	for i, el := range page.Elements {
		elResults := make([]model.MatchResult, len(terms[i]))
		for j, t := range terms[i] {
			elResults[j] = byTerm[t]
		}
		rep.Elements[i] = model.ElementReport{
			Name:       el.Name,
			Terms:      nonNil(terms[i]),
			Results:    elResults,
			Highlights: nonNilHighlights(highlight.Compute(texts[i], elResults)),
			Report:     aggregate.Results(elResults, s.maxDetails),
		}
	}

	s.metrics.Scan()
	s.logger.Debug("page scanned",
		zap.String("id", rep.ID),
		zap.String("url", page.URL),
		zap.Int("elements", len(page.Elements)),
		zap.Int("terms", rep.Summary.TermsChecked),
		zap.Int("conflicts", rep.Summary.Conflicts),
		zap.String("status", string(rep.Report.Status)),
	)
	return rep, nil
}

// Summarize counts checked terms and flagged results and derives the page
// risk level from the flagged results' severities.
func Summarize(results []model.MatchResult) model.PageSummary {
	sum := model.PageSummary{TermsChecked: len(results), RiskLevel: RiskLow}
	var high, medium int
	for _, r := range results {
		if r.IsClear() {
			continue
		}
		sum.Conflicts++
		switch r.Severity {
		case model.SeverityHigh:
			high++
		case model.SeverityMedium:
			medium++
		}
	}
	switch {
	case high > 0:
		sum.RiskLevel = RiskHigh
	case medium > 0:
		sum.RiskLevel = RiskMedium
	}
	return sum
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilHighlights(h []model.Highlight) []model.Highlight {
	if h == nil {
		return []model.Highlight{}
	}
	return h
}
