package cache

import (
	"context"
	"sync"
	"time"

	"github.com/scbrown/tmcheck/internal/model"
)

type entry struct {
	result   model.MatchResult
	storedAt time.Time
}

// Memory is an in-process cache. Entries are never evicted, only
// invalidated by age or Clear.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	counters
}

// NewMemory returns an empty in-process cache. A non-positive ttl uses DefaultTTL.
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	o := buildOptions(opts)
	return &Memory{
		entries: make(map[string]entry),
		ttl:     normalizeTTL(ttl),
		now:     o.now,
	}
}

func (m *Memory) Get(_ context.Context, term string) (model.MatchResult, bool, error) {
	m.mu.Lock()
	e, ok := m.entries[model.Normalize(term)]
	now := m.now()
	m.mu.Unlock()

	hit := ok && fresh(e.storedAt, now, m.ttl)
	m.observe(hit)
	if !hit {
		return model.MatchResult{}, false, nil
	}
	return e.result, true, nil
}

func (m *Memory) Put(_ context.Context, term string, result model.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[model.Normalize(term)] = entry{result: result, storedAt: m.now()}
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

func (m *Memory) Stats(context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Backend: "memory", Entries: len(m.entries), TTL: m.ttl}
	now := m.now()
	for _, e := range m.entries {
		if !fresh(e.storedAt, now, m.ttl) {
			s.Expired++
		}
	}
	m.fill(&s)
	return s, nil
}

func (m *Memory) Close() error { return nil }
