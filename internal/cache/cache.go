package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProductCache is a read cache for catalog responses backed by Redis.
// A nil *ProductCache is valid and behaves as a cache that always misses,
// so the handlers do not need to care whether Redis is configured.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func New(cfg Config) *ProductCache {
	if cfg.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// GetJSON loads a cached value into out; false on miss or any Redis error.
func (c *ProductCache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()

	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}

	return true
}

// SetJSON stores a value under key with the cache TTL, best effort.
func (c *ProductCache) SetJSON(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(val)

	if err != nil {
		return
	}

	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *ProductCache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}

	_ = c.rdb.Del(ctx, keys...).Err()
}

const listVersionKey = "products:list:ver"

// ListVersion returns the current generation for list keys. Writes bump the
// generation instead of enumerating every cached filter combination.
func (c *ProductCache) ListVersion(ctx context.Context) int64 {
	if c == nil {
		return 0
	}

	v, err := c.rdb.Get(ctx, listVersionKey).Int64()

	if err != nil {
		return 0
	}

	return v
}

// BumpListVersion invalidates all cached list responses.
func (c *ProductCache) BumpListVersion(ctx context.Context) {
	if c == nil {
		return
	}

	_ = c.rdb.Incr(ctx, listVersionKey).Err()
}
