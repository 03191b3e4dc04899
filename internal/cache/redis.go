package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache caches results in Redis and falls back to an in-process cache
// whenever Redis is unreachable. Callers never observe a cache failure as an
// error; at worst a lookup is a miss.
type RedisCache struct {
	client   *redis.Client
	fallback *MemoryCache
	logger   *zap.Logger
}

// NewRedisCache connects to Redis at addr. If the initial ping fails the
// returned cache still works, serving from the fallback until Redis recovers.
func NewRedisCache(addr string, fallback *MemoryCache, logger *zap.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil && logger != nil {
		logger.Warn("redis unavailable, serving from in-process cache", zap.String("addr", addr), zap.Error(err))
	}
	if fallback == nil {
		fallback = NewMemoryCache(0)
	}
	return &RedisCache{client: client, fallback: fallback, logger: logger}
}

// Get returns the cached value for key from Redis, or from the fallback when
// Redis errors.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("redis get failed, using fallback", zap.Error(err))
		}
		return c.fallback.Get(ctx, key)
	}
	return val, true
}

// Set stores value in Redis with the given TTL, mirroring to the fallback on
// failure so a Redis outage does not lose the entry entirely.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		if c.logger != nil {
			c.logger.Debug("redis set failed, using fallback", zap.Error(err))
		}
		c.fallback.Set(ctx, key, value, ttl)
	}
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
