// Package cache stores match results keyed by normalized term with a
// time-based validity window.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/scbrown/tmcheck/internal/model"
)

// DefaultTTL is how long a stored result stays valid.
const DefaultTTL = time.Hour

// Cache is the result store consulted by the matcher.
type Cache interface {
	// Get returns the result stored for term if it is still fresh.
	Get(ctx context.Context, term string) (model.MatchResult, bool, error)

	// Put stores result under term, replacing any previous entry.
	Put(ctx context.Context, term string, result model.MatchResult) error

	// Clear drops every entry.
	Clear(ctx context.Context) error

	// Stats reports entry counts and hit/miss counters.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the backend.
	Close() error
}

// Stats describes the state of a cache.
type Stats struct {
	Backend  string        `json:"backend"`
	Location string        `json:"location,omitempty"`
	Entries  int           `json:"entries"`
	Expired  int           `json:"expired"`
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
	TTL      time.Duration `json:"ttl_ns"`
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

// fresh reports whether an entry stored at storedAt is still a hit at now.
func fresh(storedAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(storedAt) <= ttl
}

// counters tracks lookups for Stats. Counts are per process.
type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) observe(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

func (c *counters) fill(s *Stats) {
	s.Hits = c.hits.Load()
	s.Misses = c.misses.Load()
}
