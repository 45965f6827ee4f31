package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// ListCacheTTL bounds staleness of cached catalog listings
	ListCacheTTL = 5 * time.Minute
)

// CacheService is a read-through JSON cache over Redis. Every miss and
// every Redis failure is treated as a cache miss, never as an error.
type CacheService struct {
	rdb *redis.Client
}

func NewCacheService(rdb *redis.Client) *CacheService {
	return &CacheService{rdb: rdb}
}

// Get retrieves a value from cache. Returns false on miss.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}
	return true
}

// Set stores a value in cache with the list TTL. Best-effort.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, CacheKeyPrefix+key, jsonData, ListCacheTTL)
}

// Delete removes a value from cache. Best-effort.
func (c *CacheService) Delete(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, CacheKeyPrefix+key)
}
