// Package metrics exposes Prometheus instrumentation for term lookups, the
// result cache and the remote registry.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/scbrown/tmcheck/internal/cache"
)

const namespace = "tmcheck"

var (
	cacheEntriesDesc = prometheus.NewDesc(
		namespace+"_cache_entries",
		"Entries currently stored in the result cache by freshness",
		[]string{"backend", "state"},
		nil,
	)
)

// Metrics holds the collectors for one process. It owns its registry so
// tests and multiple servers never share global state. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	lookups        *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	registryErrors *prometheus.CounterVec
	registryTime   prometheus.Histogram
	scans          prometheus.Counter
}

// New creates a Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Term lookups by result source and status",
		}, []string{"source", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by outcome (hit, miss, error)",
		}, []string{"outcome"}),
		registryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_errors_total",
			Help:      "Failed registry requests by resolution step",
		}, []string{"step"}),
		registryTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_request_seconds",
			Help:      "Duration of registry lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_scans_total",
			Help:      "Completed page scans",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.lookups,
		m.cacheLookups,
		m.registryErrors,
		m.registryTime,
		m.scans,
	)
	return m
}

// Registry returns the registry to expose over HTTP.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Lookup counts one resolved term.
func (m *Metrics) Lookup(source, status string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(source, status).Inc()
}

// CacheLookup counts a cache hit, miss or error.
func (m *Metrics) CacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// RegistryError counts a failed registry request. step is "verify" or "lookup".
func (m *Metrics) RegistryError(step string) {
	if m == nil {
		return
	}
	m.registryErrors.WithLabelValues(step).Inc()
}

// ObserveRegistry records how long a registry lookup took.
func (m *Metrics) ObserveRegistry(d time.Duration) {
	if m == nil {
		return
	}
	m.registryTime.Observe(d.Seconds())
}

// Scan counts a completed page scan.
func (m *Metrics) Scan() {
	if m == nil {
		return
	}
	m.scans.Inc()
}

// WatchCache registers a collector that reads c's stats on each scrape.
func (m *Metrics) WatchCache(c cache.Cache, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.registry.MustRegister(&cacheCollector{cache: c, logger: logger})
}

// cacheCollector reads entry counts from the cache backend at scrape time.
type cacheCollector struct {
	cache  cache.Cache
	logger *zap.Logger
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cacheEntriesDesc
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := c.cache.Stats(ctx)
	if err != nil {
		c.logger.Warn("failed to collect cache metrics", zap.Error(err))
		return
	}
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue,
		float64(st.Entries-st.Expired), st.Backend, "fresh")
	ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue,
		float64(st.Expired), st.Backend, "expired")
}
