package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the shared Redis-backed cache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache stores cache entries in Redis so several instances share lookups.
type RedisCache struct {
	rc *redis.Client
}

// NewRedisCache builds a client for opts. The connection is established lazily.
func NewRedisCache(opts RedisOptions) *RedisCache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}))
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(rc *redis.Client) *RedisCache {
	return &RedisCache{rc: rc}
}

// Get returns the stored bytes; a missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.rc == nil {
		return nil, false, errors.New("redis client is nil, cannot get cache")
	}
	value, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache: %w", err)
	}
	return value, true, nil
}

// Set stores value with the given expiry. Zero ttl means no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.rc == nil {
		return errors.New("redis client is nil, cannot set cache")
	}
	if err := c.rc.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.rc == nil {
		return errors.New("redis client is nil")
	}
	return c.rc.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Close()
}
