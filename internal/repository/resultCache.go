package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// CachedResult is what the detection service stores per distinct input.
type CachedResult struct {
	Languages []string           `json:"languages"`
	Scores    map[string]float64 `json:"scores,omitempty"`
}

type ResultCache interface {
	Get(ctx context.Context, key string) (*CachedResult, error)
	Set(ctx context.Context, key string, res *CachedResult) error
}

// RedisResultCache keeps detection results in Redis with a fixed TTL.
type RedisResultCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisResultCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisResultCache) cacheKey(key string) string {
	return c.prefix + "detect:" + key
}

// Get returns ErrCacheMiss for absent keys and for entries that no longer
// decode; any other error comes from Redis itself.
func (c *RedisResultCache) Get(ctx context.Context, key string) (*CachedResult, error) {
	bs, err := c.rdb.Get(ctx, c.cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var res CachedResult
	if json.Unmarshal(bs, &res) != nil {
		// Best-effort cleanup of the unreadable entry
		_ = c.rdb.Del(ctx, c.cacheKey(key)).Err()
		return nil, ErrCacheMiss
	}
	return &res, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, res *CachedResult) error {
	bs, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.cacheKey(key), bs, c.ttl).Err()
}
