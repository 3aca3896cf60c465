package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of
// ratelimit.Store. Windows are pruned lazily on Record and a
// background sweeper drops keys for clients that went idle, so memory
// stays bounded by the set of recently active clients rather than all
// clients ever seen.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string]*requestWindow

	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
}

type requestWindow struct {
	timestamps []time.Time
	window     time.Duration
	lastSeen   time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store and
// starts its idle-key sweeper.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{
		requests:      make(map[string]*requestWindow),
		sweepInterval: time.Minute,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	go s.sweepLoop()

	return s
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration, limit int64) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	w := s.requests[key]
	if w == nil {
		w = &requestWindow{}
		s.requests[key] = w
	}

	valid := make([]time.Time, 0, len(w.timestamps)+1)

	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	valid = append(valid, now)
	w.timestamps = valid
	w.window = window
	w.lastSeen = now

	return int64(len(valid)), valid[gateIndex(len(valid), limit)], nil
}

// gateIndex picks the entry whose expiry next frees a slot. Denied
// requests are recorded alongside admitted ones, so when the window
// holds more than limit entries the (count-limit)-th oldest has to
// leave before an admission can succeed, not the oldest.
func gateIndex(count int, limit int64) int {
	idx := count - int(limit)
	if idx < 0 {
		idx = 0
	}

	if idx > count-1 {
		idx = count - 1
	}

	return idx
}

func (s *RateLimitMemoryStore) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep drops keys whose entire window has elapsed since the client
// was last seen.
func (s *RateLimitMemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, w := range s.requests {
		if now.Sub(w.lastSeen) > w.window {
			delete(s.requests, key)
		}
	}
}

// Shutdown stops the background sweeper.
func (s *RateLimitMemoryStore) Shutdown() error {
	close(s.stop)
	<-s.done

	return nil
}
