package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of an admission check. RetryAfter is set
// when the request is denied and reports how long until the next
// request would be admitted.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request from the given key should be admitted
	// under the given scope.
	Allow(ctx context.Context, key string, scope Scope) (Decision, error)
}

// SlidingWindowLimiter implements rate limiting using a sliding window
// over a pluggable counter store.
type SlidingWindowLimiter struct {
	store  Store
	policy *Policy
	now    func() time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, policy *Policy) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, scope Scope) (Decision, error) {
	limit, ok := l.policy.Limits[scope]
	if !ok {
		return Decision{Allowed: true}, nil
	}

	count, gate, err := l.store.Record(ctx, l.buildKey(key, scope, limit), limit.Window, limit.Max)
	if err != nil {
		return Decision{}, err
	}

	if count <= limit.Max {
		return Decision{Allowed: true}, nil
	}

	retryAfter := gate.Add(limit.Window).Sub(l.now())
	if retryAfter <= 0 {
		retryAfter = time.Second
	}

	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

// buildKey combines client, scope, and window so each scope tracks
// independently even when limits change.
func (l *SlidingWindowLimiter) buildKey(key string, scope Scope, limit LimitConfig) string {
	return fmt.Sprintf("%s:%s:%d", key, scope, limit.Window.Milliseconds())
}
