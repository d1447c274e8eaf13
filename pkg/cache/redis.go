package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/possystem/pkg/config"
)

const (
	defaultPoolSize = 10
	pingTimeout     = 2 * time.Second
)

// RedisClient is the shared connection pool for sessions and read-model caches.
type RedisClient struct {
	client *redis.Client
}

// Options derives client options from cfg. Zero pool settings fall back to
// defaults so a hand-built Config still yields a usable pool.
func Options(cfg *config.Config) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	opts.MinIdleConns = max(opts.PoolSize/5, 1)
	opts.MaxRetries = 3
	opts.DialTimeout = cfg.RedisDialTimeout
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	// Cache calls sit on the request path.
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.PoolTimeout = opts.DialTimeout
	return opts, nil
}

// NewRedisClient opens the pool and pings it once.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return &RedisClient{client: rdb}, nil
}

// Ping is used by the readiness check.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Client exposes the pool to the session store.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
