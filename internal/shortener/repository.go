package shortener

import (
	"context"
	"time"
)

// Repository is the durable source of truth for mappings.
type Repository interface {
	// Insert atomically creates a mapping. Returns ErrDuplicateCode if
	// the code is already taken.
	Insert(ctx context.Context, mapping *Mapping) error

	// GetByCode returns the mapping for a code regardless of expiry
	// state; expiry is classified by the caller. Returns ErrNotFound
	// if no row exists.
	GetByCode(ctx context.Context, code Code) (*Mapping, error)

	// GetByURLHash returns the most recently created mapping for a
	// normalized URL hash, expired or not. Returns ErrNotFound if no
	// row exists. Used to deduplicate shorten requests.
	GetByURLHash(ctx context.Context, hash URLHash) (*Mapping, error)

	// DeleteExpiredBefore removes mappings whose expiration is older
	// than the cutoff and returns how many rows were removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CacheEntry is a cached code to URL mapping.
type CacheEntry struct {
	Code        Code
	OriginalURL string
}

// Cache is an expiring lookaside cache over the repository. It is a
// performance optimization only; every read path through it must fall
// back to the Repository.
type Cache interface {
	// Get returns the cached entry for a code or ErrCacheMiss.
	Get(ctx context.Context, code Code) (*CacheEntry, error)

	// Put stores an entry with the given TTL. Callers must cap ttl at
	// the mapping's remaining lifetime.
	Put(ctx context.Context, code Code, originalURL string, ttl time.Duration) error

	// Invalidate removes the entry for a code, if present.
	Invalidate(ctx context.Context, code Code) error
}
