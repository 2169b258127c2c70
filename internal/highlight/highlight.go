// Package highlight computes where flagged terms occur in a block of text
// so a renderer can mark them up.
package highlight

import (
	"cmp"
	"regexp"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/scbrown/tmcheck/internal/model"
)

// CSS classes by severity.
const (
	ClassDanger  = "tm-highlight-danger"
	ClassWarning = "tm-highlight-warning"
	ClassInfo    = "tm-highlight-info"
	ClassCaution = "tm-highlight-caution"
)

// Compute returns one highlight per whole-word, case-insensitive occurrence
// of each non-clear result's term in text. Longer terms are placed first and
// a later match overlapping an earlier one is dropped. The result is sorted
// by Start; offsets are byte offsets into text.
func Compute(text string, results []model.MatchResult) []model.Highlight {
	flagged := make([]model.MatchResult, 0, len(results))
	for _, r := range results {
		if !r.IsClear() && r.Term != "" {
			flagged = append(flagged, r)
		}
	}
	slices.SortStableFunc(flagged, func(a, b model.MatchResult) int {
		return cmp.Compare(utf8.RuneCountInString(model.Normalize(b.Term)), utf8.RuneCountInString(model.Normalize(a.Term)))
	})

	var out []model.Highlight
	for _, r := range flagged {
		term := model.Normalize(r.Term)
		if term == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if !wholeWord(text, loc[0], loc[1]) || overlaps(out, loc[0], loc[1]) {
				continue
			}
			out = append(out, model.Highlight{
				Start:    loc[0],
				End:      loc[1],
				Original: text[loc[0]:loc[1]],
				Class:    Class(r.Severity),
				Tooltip:  Tooltip(r),
				Result:   r,
			})
		}
	}
	slices.SortFunc(out, func(a, b model.Highlight) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}

// wholeWord reports whether text[start:end] is not joined to a letter, digit
// or underscore on either side. Unlike \b this holds for any script.
func wholeWord(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func overlaps(hs []model.Highlight, start, end int) bool {
	for _, h := range hs {
		if start < h.End && h.Start < end {
			return true
		}
	}
	return false
}

// Class maps a severity to its highlight class.
func Class(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return ClassDanger
	case model.SeverityMedium:
		return ClassWarning
	case model.SeverityLow:
		return ClassInfo
	}
	return ClassCaution
}

// Tooltip renders the hover text for a flagged result.
func Tooltip(r model.MatchResult) string {
	owner := r.Owner
	if owner == "" {
		owner = "Unknown"
	}
	return r.Trademark + " - " + string(r.Status) + " (Owner: " + owner + ")"
}
