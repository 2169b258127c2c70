package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scbrown/tmcheck/internal/model"
)

// KeyPrefix namespaces cache keys in a shared Redis.
const KeyPrefix = "tmcheck:term:"

// Redis shares entries between server replicas. Keys carry a Redis TTL as
// a backstop; freshness is still decided against the stored timestamp so
// an injected clock behaves the same as with the other backends.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
	owned  bool
	counters
}

type redisEntry struct {
	StoredAt int64             `json:"stored_at"`
	Result   model.MatchResult `json:"result"`
}

// NewRedis connects to the Redis server at url (redis://host:port/db) and
// pings it.
func NewRedis(ctx context.Context, url string, ttl time.Duration, opts ...Option) (*Redis, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(ro)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	r := NewRedisClient(client, ttl, opts...)
	r.owned = true
	return r, nil
}

// NewRedisClient wraps an existing client. Close does not close it.
func NewRedisClient(client redis.UniversalClient, ttl time.Duration, opts ...Option) *Redis {
	o := buildOptions(opts)
	return &Redis{client: client, ttl: normalizeTTL(ttl), now: o.now}
}

func (r *Redis) Get(ctx context.Context, term string) (model.MatchResult, bool, error) {
	data, err := r.client.Get(ctx, KeyPrefix+model.Normalize(term)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.observe(false)
		return model.MatchResult{}, false, nil
	}
	if err != nil {
		return model.MatchResult{}, false, fmt.Errorf("cache get %q: %w", term, err)
	}
	var e redisEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return model.MatchResult{}, false, fmt.Errorf("cache decode %q: %w", term, err)
	}
	if !fresh(time.Unix(0, e.StoredAt), r.now(), r.ttl) {
		r.observe(false)
		return model.MatchResult{}, false, nil
	}
	r.observe(true)
	return e.Result, true, nil
}

func (r *Redis) Put(ctx context.Context, term string, result model.MatchResult) error {
	data, err := json.Marshal(redisEntry{StoredAt: r.now().UnixNano(), Result: result})
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", term, err)
	}
	if err := r.client.Set(ctx, KeyPrefix+model.Normalize(term), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache put %q: %w", term, err)
	}
	return nil
}

// Clear deletes every key under KeyPrefix.
func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.keys(ctx)
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += 500 {
		end := min(start+500, len(keys))
		if err := r.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	return nil
}

// Stats counts keys under KeyPrefix. Keys already expired by Redis are not
// visible, so Expired only counts entries stale by the stored timestamp.
func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Backend: "redis", Entries: len(keys), TTL: r.ttl}
	if opts, ok := r.client.(*redis.Client); ok {
		st.Location = opts.Options().Addr
	}
	now := r.now()
	for _, k := range keys {
		data, err := r.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			st.Entries--
			continue
		}
		if err != nil {
			return Stats{}, fmt.Errorf("cache stats: %w", err)
		}
		var e redisEntry
		if json.Unmarshal(data, &e) != nil || !fresh(time.Unix(0, e.StoredAt), now, r.ttl) {
			st.Expired++
		}
	}
	r.fill(&st)
	return st, nil
}

func (r *Redis) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, KeyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan cache keys: %w", err)
	}
	return keys, nil
}

// Close closes the client if NewRedis created it.
func (r *Redis) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}
