// README: Result cache over Redis; failures degrade to misses, never errors.
package search

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedSet is the pre-pagination ranked result list stored under one
// canonical query key.
type CachedSet struct {
	Rides []RideResult `json:"rides"`
	Total int          `json:"total"`
}

// Cache memoizes ranked result sets. Implementations must be loss-tolerant:
// a failed read is a miss, a failed write is dropped, and the pipeline stays
// correct with the cache fully unavailable.
type Cache interface {
	Get(ctx context.Context, key string) (*CachedSet, bool)
	Set(ctx context.Context, key string, v *CachedSet, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}

type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(redis *redis.Client) *RedisCache {
	return &RedisCache{redis: redis}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*CachedSet, bool) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache get failed: %v", err)
		return nil, false
	}
	var v CachedSet
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("cache entry for %s is corrupt: %v", key, err)
		return nil, false
	}
	return &v, true
}

func (c *RedisCache) Set(ctx context.Context, key string, v *CachedSet, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache marshal failed: %v", err)
		return
	}
	if err := c.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set failed: %v", err)
	}
}

// Invalidate deletes every key matching pattern (e.g. "search:*") using
// SCAN so large keyspaces are not blocked.
func (c *RedisCache) Invalidate(ctx context.Context, pattern string) {
	iter := c.redis.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			c.del(ctx, keys)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache invalidation scan failed: %v", err)
	}
	if len(keys) > 0 {
		c.del(ctx, keys)
	}
}

func (c *RedisCache) del(ctx context.Context, keys []string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete failed: %v", err)
	}
}
