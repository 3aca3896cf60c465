package housekeeping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tinylink/tinylink/internal/messaging"
	"github.com/tinylink/tinylink/internal/shortener"
	"go.uber.org/zap"
)

// Sweeper periodically removes mappings that have been expired for
// longer than the retention period. Expiry itself is enforced at read
// time; the sweeper is housekeeping only. Keeping expired rows for a
// retention period preserves the guarantee that a code is never
// reassigned while any cache entry for it could still exist.
type Sweeper struct {
	repo      shortener.Repository
	publish   messaging.Publish[PurgeEvent]
	interval  time.Duration
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSweeper creates a sweeper. publish may be nil to disable purge
// events.
func NewSweeper(
	repo shortener.Repository,
	publish messaging.Publish[PurgeEvent],
	interval, retention time.Duration,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		repo:      repo,
		publish:   publish,
		interval:  interval,
		retention: retention,
		logger:    logger,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start runs the sweep loop until Shutdown or context cancellation.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.run(ctx)

	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single purge pass.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	now := s.now()
	cutoff := now.Add(-s.retention)

	purged, err := s.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("purge pass failed", zap.Error(err))

		return
	}

	if purged == 0 {
		return
	}

	s.logger.Info("purged expired mappings",
		zap.Int64("count", purged),
		zap.Time("cutoff", cutoff),
	)

	if s.publish == nil {
		return
	}

	event := &PurgeEvent{
		ID:          uuid.NewString(),
		PurgedCount: purged,
		Cutoff:      cutoff,
		OccurredAt:  now,
	}

	if err := s.publish(event); err != nil {
		s.logger.Error("failed to publish purge event", zap.Error(err))
	}
}

// Shutdown stops the sweep loop.
func (s *Sweeper) Shutdown() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}
