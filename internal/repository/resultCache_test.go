package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisResultCache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisResultCache(rdb, "test:", time.Minute), mr, rdb
}

func TestRedisResultCache_SetGet(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	want := &CachedResult{Languages: []string{"en"}, Scores: map[string]float64{"en": 12.5}}
	if err := c.Set(ctx, "k1", want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("test:detect:k1") {
		t.Fatalf("expected prefixed key in redis, keys=%v", mr.Keys())
	}
	got, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Languages) != 1 || got.Languages[0] != "en" || got.Scores["en"] != 12.5 {
		t.Fatalf("bad cached result: %+v", got)
	}
}

func TestRedisResultCache_TTL(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "k2", &CachedResult{Languages: []string{}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := c.Get(ctx, "k2"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestRedisResultCache_BadJSON_IsMiss(t *testing.T) {
	c, mr, rdb := newTestCache(t)
	ctx := context.Background()

	_ = rdb.Set(ctx, c.cacheKey("k3"), "{not-json}", time.Minute).Err()
	if _, err := c.Get(ctx, "k3"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss for bad json, got %v", err)
	}
	if mr.Exists(c.cacheKey("k3")) {
		t.Fatalf("unreadable entry should be removed")
	}
}

func TestRedisResultCache_RedisDown(t *testing.T) {
	c, mr, _ := newTestCache(t)
	mr.Close()
	_, err := c.Get(context.Background(), "k4")
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
