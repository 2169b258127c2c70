package match

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scbrown/tmcheck/internal/aggregate"
	"github.com/scbrown/tmcheck/internal/model"
)

// Batch resolves terms with bounded parallelism and returns results in
// input order. Terms that normalize to the same key are looked up once and
// each result carries its own input term.
// The only error is the context's, in which case no results are returned;
// lookups that already finished stay cached.
func (m *Matcher) Batch(ctx context.Context, terms []string) ([]model.MatchResult, error) {
	keys := make([]string, len(terms))
	var unique []string
	index := make(map[string]int)
	for i, t := range terms {
		k := model.Normalize(t)
		keys[i] = k
		if _, ok := index[k]; !ok {
			index[k] = len(unique)
			unique = append(unique, k)
		}
	}

	resolved := make([]model.MatchResult, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, k := range unique {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolved[i] = m.matchKey(gctx, k)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.MatchResult, len(terms))
	for i, k := range keys {
		out[i] = resolved[index[k]]
		out[i].Term = terms[i]
	}
	return out, nil
}

// ListingTerms splits a listing title on whitespace and appends the
// trimmed, non-empty tags.
func ListingTerms(l model.Listing) []string {
	terms := strings.Fields(l.Title)
	for _, tag := range l.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			terms = append(terms, tag)
		}
	}
	return terms
}

// CheckListing is the single-listing entry point: it checks the title words
// and tags and reduces the results to a report with at most maxDetails
// details.
func (m *Matcher) CheckListing(ctx context.Context, l model.Listing, maxDetails int) (model.Report, error) {
	results, err := m.Batch(ctx, ListingTerms(l))
	if err != nil {
		return model.Report{}, err
	}
	return aggregate.Results(results, maxDetails), nil
}
