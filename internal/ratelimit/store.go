package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window, including this one. It automatically prunes
	// expired entries.
	//
	// The returned timestamp is the request whose departure from the
	// window next frees a slot under the given limit: the
	// (count-limit)-th oldest entry when the window is over the limit,
	// otherwise simply the oldest. Denied requests are recorded too, so
	// the plain oldest entry is not enough to compute a retry hint.
	Record(ctx context.Context, key string, window time.Duration, limit int64) (count int64, gate time.Time, err error)
}
