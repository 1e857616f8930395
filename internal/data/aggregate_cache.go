package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AggregateCache is a Redis-backed second-level cache for the expensive
// admin aggregates (system stats, payment summaries). Entries are stored as
// JSON with a TTL; payment mutations invalidate them so the next read
// recomputes from Postgres.
type AggregateCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewAggregateCache creates a cache with the given TTL.
func NewAggregateCache(client redis.UniversalClient, ttl time.Duration) *AggregateCache {
	return &AggregateCache{client: client, prefix: "aggregate:", ttl: ttl}
}

// Get loads the cached JSON for key into dst. The boolean reports whether the
// key was present.
func (c *AggregateCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}

	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, fmt.Errorf("unmarshal cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the cache TTL.
func (c *AggregateCache) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// Delete removes one or more keys. Missing keys are not an error.
func (c *AggregateCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// Health checks the Redis connection.
func (c *AggregateCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
