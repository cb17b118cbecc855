package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bioisac/admindesk/internal/admin/store"
)

// HousekeepingService periodically deletes expired session rows. Validation
// never depends on it; it only keeps the sessions table from growing.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewHousekeepingService creates a sweeper. A non-positive interval defaults
// to one hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
	}
}

// Start sweeps once, then every Interval, until ctx is cancelled or Stop is
// called. It must be called at most once.
func (s *HousekeepingService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			s.Sweep(ctx)
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop cancels a running sweep and waits for the worker to exit. It is safe
// to call more than once, and before Start.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
		s.Logger.Info("housekeeping service stopped")
	})
}

// Sweep deletes sessions that expired before now and returns how many.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now)
	if err != nil {
		if ctx.Err() == nil {
			s.Logger.Error("failed to delete expired sessions", "error", err)
		}
		return 0
	}
	if n > 0 {
		s.Logger.Info("expired sessions removed", "count", n)
	}
	return n
}
