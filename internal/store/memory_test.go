package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylink/tinylink/internal/shortener"
	"github.com/tinylink/tinylink/internal/store"
)

func newMapping(code shortener.Code, url string, createdAt time.Time) *shortener.Mapping {
	return &shortener.Mapping{
		Code:        code,
		OriginalURL: url,
		URLHash:     shortener.HashURL(url),
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(30 * 24 * time.Hour),
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	t.Run("inserts a mapping", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.Insert(context.Background(), newMapping("abc1234", "https://example.com", time.Now()))

		require.NoError(t, err)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		s := store.NewMemoryStore()
		mapping := newMapping("abc1234", "https://example.com", time.Now())
		require.NoError(t, s.Insert(context.Background(), mapping))

		err := s.Insert(context.Background(), newMapping("abc1234", "https://other.com", time.Now()))

		assert.ErrorIs(t, err, shortener.ErrDuplicateCode)
	})

	t.Run("duplicate insert never replaces the original", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Insert(context.Background(), newMapping("abc1234", "https://example.com", time.Now())))
		_ = s.Insert(context.Background(), newMapping("abc1234", "https://other.com", time.Now()))

		got, err := s.GetByCode(context.Background(), "abc1234")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
	})
}

func TestMemoryStore_GetByCode(t *testing.T) {
	t.Run("returns the mapping when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		mapping := newMapping("abc1234", "https://example.com", time.Now())
		require.NoError(t, s.Insert(context.Background(), mapping))

		got, err := s.GetByCode(context.Background(), "abc1234")

		require.NoError(t, err)
		assert.Equal(t, mapping.OriginalURL, got.OriginalURL)
		assert.Equal(t, mapping.Code, got.Code)
	})

	t.Run("returns expired mappings too", func(t *testing.T) {
		s := store.NewMemoryStore()
		old := newMapping("abc1234", "https://example.com", time.Now().Add(-60*24*time.Hour))
		require.NoError(t, s.Insert(context.Background(), old))

		got, err := s.GetByCode(context.Background(), "abc1234")

		require.NoError(t, err)
		assert.True(t, got.Expired(time.Now()))
	})

	t.Run("returns ErrNotFound for an unknown code", func(t *testing.T) {
		s := store.NewMemoryStore()

		got, err := s.GetByCode(context.Background(), "zzzzzz")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_GetByURLHash(t *testing.T) {
	t.Run("returns the most recent mapping for a hash", func(t *testing.T) {
		s := store.NewMemoryStore()
		older := newMapping("code0001", "https://example.com", time.Now().Add(-time.Hour))
		newer := newMapping("code0002", "https://example.com", time.Now())
		require.NoError(t, s.Insert(context.Background(), older))
		require.NoError(t, s.Insert(context.Background(), newer))

		got, err := s.GetByURLHash(context.Background(), shortener.HashURL("https://example.com"))

		require.NoError(t, err)
		assert.Equal(t, newer.Code, got.Code)
	})

	t.Run("returns ErrNotFound for an unknown hash", func(t *testing.T) {
		s := store.NewMemoryStore()

		_, err := s.GetByURLHash(context.Background(), shortener.HashURL("https://nowhere.example"))

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_DeleteExpiredBefore(t *testing.T) {
	t.Run("removes only mappings expired before the cutoff", func(t *testing.T) {
		s := store.NewMemoryStore()
		expired := newMapping("old00001", "https://old.example.com", time.Now().Add(-100*24*time.Hour))
		active := newMapping("new00001", "https://new.example.com", time.Now())
		require.NoError(t, s.Insert(context.Background(), expired))
		require.NoError(t, s.Insert(context.Background(), active))

		removed, err := s.DeleteExpiredBefore(context.Background(), time.Now().Add(-30*24*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		_, err = s.GetByCode(context.Background(), expired.Code)
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = s.GetByCode(context.Background(), active.Code)
		assert.NoError(t, err)
	})
}
