package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitRedisStore is a Redis sorted-set implementation of
// ratelimit.Store for multi-instance deployments. Each request is a
// member scored by its timestamp; pruning, insertion, and counting run
// in one pipeline so concurrent bursts cannot undercount.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration, limit int64) (int64, time.Time, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	redisKey := s.prefix + key

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	count := countCmd.Val()

	// Denied requests are recorded alongside admitted ones, so an
	// admission next succeeds when the (count-limit)-th oldest entry
	// leaves the window, not the oldest. The rank depends on the count,
	// so this lookup cannot join the pipeline above.
	idx := count - limit
	if idx < 0 {
		idx = 0
	}

	if idx > count-1 {
		idx = count - 1
	}

	gate := now

	members, err := s.client.ZRangeWithScores(ctx, redisKey, idx, idx).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	if len(members) > 0 {
		gate = time.Unix(0, int64(members[0].Score))
	}

	return count, gate, nil
}
