// Package model defines core types for tmcheck: trademark reference entries,
// per-term match results, aggregate reports, and highlight instructions.
package model

import (
	"encoding/json"
	"strings"
)

// Status is the outcome of checking a single term.
type Status string

const (
	StatusClear    Status = "clear"
	StatusWarning  Status = "warning"
	StatusConflict Status = "conflict"
)

// Severity is the qualitative risk weight of a trademark.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is one of the severities a reference entry may carry.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Source names where a match result came from.
type Source string

const (
	SourceCache      Source = "cache"
	SourceAPI        Source = "api"
	SourceDictionary Source = "local-dictionary"
	SourceHeuristic  Source = "heuristic"
)

// Similarity is how closely a queried term matches a trademark.
type Similarity string

const (
	SimilarityExact  Similarity = "exact"
	SimilarityHigh   Similarity = "high"
	SimilarityMedium Similarity = "medium"
	SimilarityLow    Similarity = "low"
)

// Rank orders similarity tiers: exact > high > medium > low.
func (s Similarity) Rank() int {
	switch s {
	case SimilarityExact:
		return 3
	case SimilarityHigh:
		return 2
	case SimilarityMedium:
		return 1
	}
	return 0
}

// RiskStatus is the overall status of a report.
type RiskStatus string

const (
	RiskClear   RiskStatus = "clear"
	RiskWarning RiskStatus = "warning"
	RiskRisk    RiskStatus = "risk"
)

// Entry is a known trademark in the reference dictionary.
type Entry struct {
	Term     string   `json:"term" yaml:"term"`
	Owner    string   `json:"owner" yaml:"owner"`
	Severity Severity `json:"severity" yaml:"severity"`
	Category string   `json:"category" yaml:"category"`
}

// MatchResult is the classification of a single queried term.
// Severity is SeverityNone exactly when Status is StatusClear.
type MatchResult struct {
	Term               string          `json:"term"`
	Status             Status          `json:"status"`
	Severity           Severity        `json:"severity"`
	Trademark          string          `json:"trademark,omitempty"`
	Owner              string          `json:"owner,omitempty"`
	Category           string          `json:"category,omitempty"`
	RegistrationNumber string          `json:"registration_number,omitempty"`
	RegistrationMock   bool            `json:"registration_mock,omitempty"`
	Source             Source          `json:"source"`
	CachedFrom         Source          `json:"cached_from,omitempty"`
	Note               string          `json:"note,omitempty"`
	APIData            json.RawMessage `json:"api_data,omitempty"`
}

// Clear returns a clear result for term.
func Clear(term string, src Source) MatchResult {
	return MatchResult{
		Term:     term,
		Status:   StatusClear,
		Severity: SeverityNone,
		Source:   src,
	}
}

// IsClear reports whether the result carries no trademark signal.
func (r MatchResult) IsClear() bool {
	return r.Status == StatusClear
}

// Detail is one entry in a report's details list.
type Detail struct {
	Term               string     `json:"term"`
	Trademark          string     `json:"trademark"`
	Status             string     `json:"status"`
	Similarity         Similarity `json:"similarity"`
	Severity           Severity   `json:"severity"`
	Owner              string     `json:"owner,omitempty"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
}

// Report is the aggregate risk summary over a set of match results.
type Report struct {
	Status  RiskStatus `json:"status"`
	Message string     `json:"message"`
	Details []Detail   `json:"details"`
}

// Listing is the input of the legacy single-check entry point.
type Listing struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Highlight marks one occurrence of a flagged term inside a text blob.
// Start and End are byte offsets into that text.
type Highlight struct {
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Original string      `json:"original"`
	Class    string      `json:"class"`
	Tooltip  string      `json:"tooltip"`
	Result   MatchResult `json:"result"`
}

// Element is one scraped block of page text (title, description, tags...).
type Element struct {
	Name string `json:"name"`
	Text string `json:"text"`
	HTML bool   `json:"html,omitempty"`
}

// Page is the input of a page scan.
type Page struct {
	URL      string    `json:"url,omitempty"`
	Elements []Element `json:"elements"`
}

// ElementReport is the scan outcome for a single element.
type ElementReport struct {
	Name       string        `json:"name"`
	Terms      []string      `json:"terms"`
	Results    []MatchResult `json:"results"`
	Highlights []Highlight   `json:"highlights"`
	Report     Report        `json:"report"`
}

// PageSummary holds page-level counters.
type PageSummary struct {
	TermsChecked int    `json:"terms_checked"`
	Conflicts    int    `json:"conflicts"`
	RiskLevel    string `json:"risk_level"`
}

// PageReport is the outcome of a page scan.
type PageReport struct {
	ID       string          `json:"id"`
	URL      string          `json:"url,omitempty"`
	Summary  PageSummary     `json:"summary"`
	Report   Report          `json:"report"`
	Elements []ElementReport `json:"elements"`
}

// Normalize returns the lookup key for a term: lowercased and trimmed.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
