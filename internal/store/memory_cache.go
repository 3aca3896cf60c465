package store

import (
	"context"
	"sync"
	"time"

	"github.com/tinylink/tinylink/internal/shortener"
)

// DefaultMemoryCacheSize bounds the in-memory cache entry count.
const DefaultMemoryCacheSize = 10000

type memoryCacheEntry struct {
	originalURL string
	expiresAt   time.Time
}

// MemoryCache is a size-bounded in-memory implementation of
// shortener.Cache. Expired entries are dropped lazily on Get; when the
// size bound is reached, the entry closest to expiry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[shortener.Code]memoryCacheEntry
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a new in-memory cache holding at most
// maxEntries entries. A non-positive maxEntries falls back to
// DefaultMemoryCacheSize.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return NewMemoryCacheWithClock(maxEntries, time.Now)
}

// NewMemoryCacheWithClock creates a memory cache with an explicit
// clock, for tests that control time.
func NewMemoryCacheWithClock(maxEntries int, now func() time.Time) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryCacheSize
	}

	return &MemoryCache{
		entries:    make(map[shortener.Code]memoryCacheEntry),
		maxEntries: maxEntries,
		now:        now,
	}
}

func (c *MemoryCache) Get(_ context.Context, code shortener.Code) (*shortener.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[code]
	if !ok {
		return nil, shortener.ErrCacheMiss
	}

	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, code)

		return nil, shortener.ErrCacheMiss
	}

	return &shortener.CacheEntry{Code: code, OriginalURL: entry.originalURL}, nil
}

func (c *MemoryCache) Put(_ context.Context, code shortener.Code, originalURL string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[code]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	c.entries[code] = memoryCacheEntry{
		originalURL: originalURL,
		expiresAt:   c.now().Add(ttl),
	}

	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, code shortener.Code) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, code)

	return nil
}

// evictLocked removes the entry with the nearest expiry. Callers must
// hold the mutex.
func (c *MemoryCache) evictLocked() {
	var (
		victim shortener.Code
		oldest time.Time
		found  bool
	)

	for code, entry := range c.entries {
		if !found || entry.expiresAt.Before(oldest) {
			victim = code
			oldest = entry.expiresAt
			found = true
		}
	}

	if found {
		delete(c.entries, victim)
	}
}

// Compile-time check.
var _ shortener.Cache = (*MemoryCache)(nil)
