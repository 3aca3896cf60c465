package shortener

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates no mapping exists for the requested code.
	ErrNotFound = errors.New("short url not found")

	// ErrExpired indicates the mapping exists but is past its expiration.
	ErrExpired = errors.New("short url expired")

	// ErrDuplicateCode indicates an insert was rejected by the store's
	// uniqueness constraint. Expected and retryable during creation.
	ErrDuplicateCode = errors.New("short code already exists")

	// ErrInvalidURL indicates the original URL failed validation.
	ErrInvalidURL = errors.New("invalid url")

	// ErrURLTooLong indicates the original URL exceeds MaxURLLength.
	ErrURLTooLong = errors.New("url too long")

	// ErrGenerationExhausted indicates code generation kept colliding
	// past the retry bound.
	ErrGenerationExhausted = errors.New("short code generation exhausted")

	// ErrStoreUnavailable indicates a transient store or connectivity
	// failure. Distinct from ErrNotFound; callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCacheMiss indicates the cache holds no entry for the code.
	ErrCacheMiss = errors.New("cache miss")
)

// RateLimitError is returned when a client exceeds its request budget.
// RetryAfter is how long until the next request would be admitted.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}
