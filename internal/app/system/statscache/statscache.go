// Package statscache keeps short-lived JSON snapshots in Redis so that
// expensive aggregate reads (admin counts) are not recomputed on every
// request. A Cache built without a client is disabled: every Get misses
// and every Set is dropped.
package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "skilllink:"

// AdminStatsKey holds the admin dashboard counts.
const AdminStatsKey = "admin_stats"

// Cache is a TTL cache over Redis.
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *zap.Logger
}

// New returns a Cache. rdb may be nil (disabled); ttl <= 0 also disables it.
func New(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, log: logger}
}

// Enabled reports whether reads and writes reach Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// Get loads key into dst. It returns false on a miss or when disabled.
// Redis failures are logged and reported as a miss so callers fall back
// to the source of truth.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("stats cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores v under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, KeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, KeyPrefix+key).Err()
}

// Forget drops key and logs instead of failing. Writers call it after
// changing data that a cached snapshot summarises.
func (c *Cache) Forget(ctx context.Context, key string) {
	if err := c.Invalidate(ctx, key); err != nil {
		c.log.Warn("stats cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks the Redis connection. A disabled cache reports nil.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Connect opens a Redis client and pings it. An empty addr returns a nil
// client, which callers pass to New to get a disabled Cache.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
