package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default cache TTL for rendered responses.
const defaultCacheTTL = time.Hour

// Cache is a thin JSON response cache on top of Redis. A Cache with a nil
// client is valid and treats every lookup as a miss.
type Cache struct {
	rc *redis.Client
}

// NewCache wraps a Redis client. client may be nil.
func NewCache(client *redis.Client) *Cache {
	return &Cache{rc: client}
}

// GetBytes returns the cached bytes for key, or a miss.
func (c *Cache) GetBytes(key string) ([]byte, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// SetJSON marshals v and stores it under key. Failures are logged, never
// propagated: caching is best-effort.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, key, b, ttl).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys matching the prefix using SCAN.
func (c *Cache) InvalidateByPrefix(prefix string) {
	if c == nil || c.rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // bound the rounds, stale entries expire anyway
		keys, cur, err := c.rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}
