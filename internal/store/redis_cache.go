package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tinylink/tinylink/internal/shortener"
)

// RedisCache is a Redis implementation of shortener.Cache. Expiry is
// delegated to Redis key TTLs, which the orchestrator caps at the
// mapping's remaining lifetime on every Put.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "url:",
	}
}

func (r *RedisCache) Get(ctx context.Context, code shortener.Code) (*shortener.CacheEntry, error) {
	url, err := r.client.Get(ctx, r.prefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrCacheMiss
		}

		return nil, err
	}

	return &shortener.CacheEntry{Code: code, OriginalURL: url}, nil
}

func (r *RedisCache) Put(ctx context.Context, code shortener.Code, originalURL string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return r.client.Set(ctx, r.prefix+string(code), originalURL, ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context, code shortener.Code) error {
	return r.client.Del(ctx, r.prefix+string(code)).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
