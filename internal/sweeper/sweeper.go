// Package sweeper marks stale active sessions abandoned on a schedule.
// It is the external timeout collaborator of the session engine: the engine
// itself never abandons sessions in-process.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Engine is the subset of the session engine the sweeper drives.
type Engine interface {
	StaleSessions(olderThan time.Duration) []string
	MarkAbandoned(ctx context.Context, sessionID string) error
}

// Sweeper periodically abandons sessions with no recent activity.
type Sweeper struct {
	scheduler *gocron.Scheduler
	engine    Engine
	threshold time.Duration
	logger    *slog.Logger
}

// New creates a sweeper that abandons sessions idle for at least threshold.
func New(engine Engine, threshold time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		engine:    engine,
		threshold: threshold,
		logger:    logger,
	}
}

// Start schedules sweeps at the given interval, non-blocking.
func (s *Sweeper) Start(interval time.Duration) error {
	if _, err := s.scheduler.Every(interval).Do(func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the schedule.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// RunOnce performs a single sweep and returns how many sessions it abandoned.
// MarkAbandoned is idempotent, so overlapping sweeps are harmless.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	stale := s.engine.StaleSessions(s.threshold)
	abandoned := 0
	for _, id := range stale {
		if err := s.engine.MarkAbandoned(ctx, id); err != nil {
			s.logger.Error("abandon session", "session", id, "error", err)
			continue
		}
		abandoned++
	}
	if abandoned > 0 {
		s.logger.Info("swept stale sessions", "abandoned", abandoned)
	}
	return abandoned
}
