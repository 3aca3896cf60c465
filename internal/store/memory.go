package store

import (
	"context"
	"sync"
	"time"

	"github.com/tinylink/tinylink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
// It enforces the same code uniqueness constraint as the durable
// backends so the collision retry path behaves identically in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[shortener.Code]*shortener.Mapping
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[shortener.Code]*shortener.Mapping),
	}
}

func (m *MemoryStore) Insert(_ context.Context, mapping *shortener.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mappings[mapping.Code]; exists {
		return shortener.ErrDuplicateCode
	}

	clone := *mapping
	m.mappings[mapping.Code] = &clone

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.mappings[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	clone := *mapping

	return &clone, nil
}

func (m *MemoryStore) GetByURLHash(_ context.Context, hash shortener.URLHash) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *shortener.Mapping

	for _, mapping := range m.mappings {
		if mapping.URLHash != hash {
			continue
		}

		if latest == nil || mapping.CreatedAt.After(latest.CreatedAt) {
			latest = mapping
		}
	}

	if latest == nil {
		return nil, shortener.ErrNotFound
	}

	clone := *latest

	return &clone, nil
}

func (m *MemoryStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64

	for code, mapping := range m.mappings {
		if mapping.ExpiresAt.Before(cutoff) {
			delete(m.mappings, code)
			removed++
		}
	}

	return removed, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
