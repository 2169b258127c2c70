// Package match resolves candidate terms to trademark match results using
// the reference dictionary, an optional remote registry and a result cache.
package match

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/scbrown/tmcheck/internal/cache"
	"github.com/scbrown/tmcheck/internal/dictionary"
	"github.com/scbrown/tmcheck/internal/metrics"
	"github.com/scbrown/tmcheck/internal/model"
)

// Defaults.
const (
	DefaultConcurrency   = 4
	DefaultHeuristicRate = 0.1
	DefaultMinLength     = 3
)

// Notes attached to non-authoritative results.
const (
	NoteSimilar   = "Similar to registered trademark"
	NoteHeuristic = "Potential trademark (heuristic, not verified)"
)

// Registry looks a term up in a remote trademark registry. A nil result
// with a nil error means the registry had no usable answer.
type Registry interface {
	Lookup(ctx context.Context, term string) (*model.MatchResult, error)
}

// Matcher owns the dictionary, registry, cache and settings for a check
// session. It is safe for concurrent use.
type Matcher struct {
	dict        *dictionary.Dictionary
	registry    Registry
	cache       cache.Cache
	logger      *zap.Logger
	metrics     *metrics.Metrics
	verify      bool
	concurrency int
	minLength   int

	heuristicRate float64
	rngMu         sync.Mutex
	rng           *rand.Rand
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRegistry enables remote lookups. A registry that reports itself as
// unconfigured (no API key) is ignored.
func WithRegistry(r Registry) Option {
	return func(m *Matcher) {
		if c, ok := r.(interface{ Configured() bool }); ok && !c.Configured() {
			return
		}
		m.registry = r
	}
}

// WithCache sets the result cache.
func WithCache(c cache.Cache) Option {
	return func(m *Matcher) { m.cache = c }
}

// WithLogger sets the logger for swallowed failures.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records lookups in mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Matcher) { m.metrics = mt }
}

// WithVerify controls whether dictionary hits are re-checked against the
// registry. Defaults to true.
func WithVerify(v bool) Option {
	return func(m *Matcher) { m.verify = v }
}

// WithConcurrency bounds parallel lookups in Batch.
func WithConcurrency(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithMinLength sets the shortest term, in runes, that is looked up.
// Shorter terms are clear.
func WithMinLength(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.minLength = n
		}
	}
}

// WithHeuristic turns on the random "potential trademark" guess for terms
// nothing else matched. rate is the probability per term; rng may be nil.
func WithHeuristic(rate float64, rng *rand.Rand) Option {
	return func(m *Matcher) {
		m.heuristicRate = rate
		if rng != nil {
			m.rng = rng
		}
	}
}

// New creates a Matcher over dict. Without WithCache results are cached in
// memory for cache.DefaultTTL.
func New(dict *dictionary.Dictionary, opts ...Option) *Matcher {
	m := &Matcher{
		dict:        dict,
		logger:      zap.NewNop(),
		verify:      true,
		concurrency: DefaultConcurrency,
		minLength:   DefaultMinLength,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = cache.NewMemory(cache.DefaultTTL)
	}
	if m.heuristicRate > 0 && m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return m
}

// Cache returns the matcher's cache.
func (m *Matcher) Cache() cache.Cache {
	return m.cache
}

// Dictionary returns the reference dictionary.
func (m *Matcher) Dictionary() *dictionary.Dictionary {
	return m.dict
}

// Match resolves one term. It never fails: registry and cache errors are
// logged and the lookup degrades to the next step. Lookups and the cache are
// keyed by the normalized term; the result carries term as given.
func (m *Matcher) Match(ctx context.Context, term string) model.MatchResult {
	r := m.matchKey(ctx, model.Normalize(term))
	r.Term = term
	return r
}

// matchKey resolves a normalized key. Keys shorter than the minimum length
// are clear and never cached.
func (m *Matcher) matchKey(ctx context.Context, key string) model.MatchResult {
	if utf8.RuneCountInString(key) < m.minLength {
		return model.Clear(key, m.clearSource())
	}

	if r, ok := m.cached(ctx, key); ok {
		m.metrics.Lookup(string(r.Source), string(r.Status))
		return r
	}

	r, degraded := m.resolve(ctx, key)
	if !degraded {
		if err := m.cache.Put(ctx, key, r); err != nil {
			m.logger.Warn("cache put failed", zap.String("term", key), zap.Error(err))
		}
	}
	m.metrics.Lookup(string(r.Source), string(r.Status))
	return r
}

func (m *Matcher) cached(ctx context.Context, key string) (model.MatchResult, bool) {
	r, ok, err := m.cache.Get(ctx, key)
	switch {
	case err != nil:
		m.logger.Warn("cache get failed", zap.String("term", key), zap.Error(err))
		m.metrics.CacheLookup("error")
		return model.MatchResult{}, false
	case !ok:
		m.metrics.CacheLookup("miss")
		return model.MatchResult{}, false
	}
	m.metrics.CacheLookup("hit")
	if r.Source != model.SourceCache {
		r.CachedFrom = r.Source
		r.Source = model.SourceCache
	}
	return r, true
}

// resolve runs the lookup chain for a normalized key. degraded reports
// that a registry call failed along the way.
func (m *Matcher) resolve(ctx context.Context, key string) (r model.MatchResult, degraded bool) {
	if e, ok := m.dict.Lookup(key); ok {
		r = fromEntry(key, e)
		if m.registry != nil && m.verify {
			v, err := m.lookup(ctx, key, "verify")
			switch {
			case err != nil:
				degraded = true
			case v != nil:
				return *v, false
			}
		}
		return r, degraded
	}

	if m.registry != nil {
		v, err := m.lookup(ctx, key, "lookup")
		switch {
		case err != nil:
			degraded = true
		case v != nil:
			return *v, false
		}
	}

	if e, ok := m.dict.Containing(key); ok {
		return similar(key, e), degraded
	}

	if m.heuristicHit() {
		return heuristic(key), degraded
	}

	return model.Clear(key, m.clearSource()), degraded
}

func (m *Matcher) lookup(ctx context.Context, key, step string) (*model.MatchResult, error) {
	start := time.Now()
	v, err := m.registry.Lookup(ctx, key)
	m.metrics.ObserveRegistry(time.Since(start))
	if err != nil {
		m.logger.Warn("registry "+step+" failed", zap.String("term", key), zap.Error(err))
		m.metrics.RegistryError(step)
		return nil, err
	}
	if v != nil {
		v.Term = key
	}
	return v, nil
}

func (m *Matcher) heuristicHit() bool {
	if m.heuristicRate <= 0 {
		return false
	}
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return m.rng.Float64() < m.heuristicRate
}

func (m *Matcher) clearSource() model.Source {
	if m.registry != nil {
		return model.SourceAPI
	}
	return model.SourceDictionary
}

func fromEntry(key string, e model.Entry) model.MatchResult {
	return model.MatchResult{
		Term:               key,
		Status:             model.StatusConflict,
		Severity:           e.Severity,
		Trademark:          strings.ToUpper(e.Term),
		Owner:              e.Owner,
		Category:           e.Category,
		RegistrationNumber: dictionary.MockRegistration(key),
		RegistrationMock:   true,
		Source:             model.SourceDictionary,
	}
}

func similar(key string, e model.Entry) model.MatchResult {
	return model.MatchResult{
		Term:               key,
		Status:             model.StatusWarning,
		Severity:           model.SeverityMedium,
		Trademark:          strings.ToUpper(e.Term),
		Owner:              e.Owner,
		Category:           e.Category,
		RegistrationNumber: dictionary.MockRegistration(e.Term),
		RegistrationMock:   true,
		Source:             model.SourceDictionary,
		Note:               NoteSimilar,
	}
}

func heuristic(key string) model.MatchResult {
	return model.MatchResult{
		Term:               key,
		Status:             model.StatusWarning,
		Severity:           model.SeverityLow,
		Trademark:          strings.ToUpper(key),
		Owner:              "Unknown",
		RegistrationNumber: dictionary.MockRegistration(key),
		RegistrationMock:   true,
		Source:             model.SourceHeuristic,
		Note:               NoteHeuristic,
	}
}
