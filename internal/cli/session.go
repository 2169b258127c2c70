package cli

import (
	"context"
	"fmt"

	"github.com/scbrown/tmcheck/internal/cache"
	"github.com/scbrown/tmcheck/internal/config"
	"github.com/scbrown/tmcheck/internal/dictionary"
	"github.com/scbrown/tmcheck/internal/extract"
	"github.com/scbrown/tmcheck/internal/match"
	"github.com/scbrown/tmcheck/internal/metrics"
	"github.com/scbrown/tmcheck/internal/registry"
)

// session bundles what a command needs to check terms.
type session struct {
	matcher   *match.Matcher
	extractor *extract.Extractor
	metrics   *metrics.Metrics
	cache     cache.Cache
}

// Close releases the cache backend.
func (s *session) Close() error {
	return s.cache.Close()
}

// openSession builds a matcher from the loaded configuration. The registry
// is only consulted when registry_key is set.
func openSession(ctx context.Context) (*session, error) {
	dict, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		return nil, err
	}
	c, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	m.WatchCache(c, logger)

	reg := registry.New(cfg.RegistryEndpoint(), cfg.RegistryKey,
		registry.WithTimeout(cfg.Timeout()),
		registry.WithHost(cfg.RegistryHost),
	)
	opts := []match.Option{
		match.WithRegistry(reg),
		match.WithCache(c),
		match.WithLogger(logger),
		match.WithMetrics(m),
		match.WithVerify(cfg.VerifyEnabled()),
		match.WithConcurrency(cfg.Workers()),
		match.WithMinLength(cfg.WordLength()),
	}
	if cfg.Heuristic {
		opts = append(opts, match.WithHeuristic(match.DefaultHeuristicRate, nil))
	}

	ext := extract.New()
	ext.MinWordLength = cfg.WordLength()

	return &session{
		matcher:   match.New(dict, opts...),
		extractor: ext,
		metrics:   m,
		cache:     c,
	}, nil
}

// openCache returns the configured cache backend.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Backend() {
	case "sqlite":
		c, err := cache.NewSQLite(cfg.CacheFile(), cfg.TTL())
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return c, nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache_backend is \"redis\" but redis_url is not set; use: tmcheck config set redis_url <url>")
		}
		c, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.TTL())
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return c, nil
	default:
		return cache.NewMemory(cfg.TTL()), nil
	}
}
