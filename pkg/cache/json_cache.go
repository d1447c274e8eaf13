package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by JSONCache.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// JSONCache stores read models as JSON strings under a fixed namespace.
// Key format: "{namespace}:{key}". Invalidate drops every key in the namespace.
type JSONCache struct {
	client    *RedisClient
	namespace string
	ttl       time.Duration
}

// NewJSONCache returns a JSONCache writing entries that expire after ttl.
func NewJSONCache(r *RedisClient, namespace string, ttl time.Duration) *JSONCache {
	return &JSONCache{client: r, namespace: namespace, ttl: ttl}
}

// Get decodes the entry stored under key into dst. Returns ErrMiss when absent.
func (c *JSONCache) Get(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Client().Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}

// Set encodes v as JSON and stores it under key with the cache TTL.
func (c *JSONCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate removes every entry in the namespace.
func (c *JSONCache) Invalidate(ctx context.Context) error {
	rdb := c.client.Client()
	iter := rdb.Scan(ctx, 0, c.namespace+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *JSONCache) key(k string) string {
	return c.namespace + ":" + k
}
