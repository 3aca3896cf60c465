package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylink/tinylink/internal/store"
)

func TestRateLimitMemoryStore_Record(t *testing.T) {
	t.Run("counts requests within the window", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		t.Cleanup(func() { _ = s.Shutdown() })

		for i := 1; i <= 5; i++ {
			count, _, err := s.Record(context.Background(), "client1", time.Minute, 10)

			require.NoError(t, err)
			assert.Equal(t, int64(i), count)
		}
	})

	t.Run("reports the oldest timestamp while under the limit", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		t.Cleanup(func() { _ = s.Shutdown() })

		before := time.Now()
		_, gate, err := s.Record(context.Background(), "client1", time.Minute, 10)
		require.NoError(t, err)

		assert.False(t, gate.Before(before))

		_, gateAgain, err := s.Record(context.Background(), "client1", time.Minute, 10)
		require.NoError(t, err)

		assert.Equal(t, gate, gateAgain)
	})

	t.Run("gate advances past the oldest entry once over the limit", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		t.Cleanup(func() { _ = s.Shutdown() })

		_, first, err := s.Record(context.Background(), "client1", time.Minute, 2)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, second, err := s.Record(context.Background(), "client1", time.Minute, 2)
		require.NoError(t, err)
		require.Equal(t, first, second, "second request still gated by the oldest")

		time.Sleep(5 * time.Millisecond)

		// The third request is over the limit and is itself recorded;
		// two entries now have to leave the window before an admission
		// can succeed, so the gate is the second-oldest entry.
		count, gate, err := s.Record(context.Background(), "client1", time.Minute, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.True(t, gate.After(first), "gate should move past the oldest entry")
	})

	t.Run("prunes requests outside the window", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		t.Cleanup(func() { _ = s.Shutdown() })

		for i := 0; i < 3; i++ {
			_, _, err := s.Record(context.Background(), "client1", 30*time.Millisecond, 10)
			require.NoError(t, err)
		}

		time.Sleep(40 * time.Millisecond)

		count, _, err := s.Record(context.Background(), "client1", 30*time.Millisecond, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		t.Cleanup(func() { _ = s.Shutdown() })

		_, _, err := s.Record(context.Background(), "client1", time.Minute, 10)
		require.NoError(t, err)

		count, _, err := s.Record(context.Background(), "client2", time.Minute, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("shutdown stops the sweeper", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		assert.NoError(t, s.Shutdown())
	})
}
