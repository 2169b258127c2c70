package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scbrown/tmcheck/internal/cache"
	"github.com/scbrown/tmcheck/internal/model"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Lookup("local-dictionary", "conflict")
	m.Lookup("local-dictionary", "conflict")
	m.Lookup("api", "clear")
	m.CacheLookup("hit")
	m.RegistryError("verify")
	m.ObserveRegistry(20 * time.Millisecond)
	m.Scan()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues("local-dictionary", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("api", "clear")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registryErrors.WithLabelValues("verify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Lookup("api", "clear")
		m.CacheLookup("miss")
		m.RegistryError("lookup")
		m.ObserveRegistry(time.Second)
		m.Scan()
	})
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Scan()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.scans))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.scans))
}

func TestWatchCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := cache.NewMemory(time.Hour, cache.WithClock(func() time.Time { return now }))
	require.NoError(t, c.Put(ctx, "nike", model.Clear("nike", model.SourceDictionary)))
	require.NoError(t, c.Put(ctx, "lego", model.Clear("lego", model.SourceDictionary)))

	m := New()
	m.WatchCache(c, nil)

	expected := `
# HELP tmcheck_cache_entries Entries currently stored in the result cache by freshness
# TYPE tmcheck_cache_entries gauge
tmcheck_cache_entries{backend="memory",state="expired"} 0
tmcheck_cache_entries{backend="memory",state="fresh"} 2
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "tmcheck_cache_entries")
	assert.NoError(t, err)
}
