package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/lingo-srs/internal/service/stats"
)

// sweepTimeout bounds a single streak sweep run.
const sweepTimeout = 2 * time.Minute

// streakSweeper periodically zeroes streaks of learners who missed a day.
type streakSweeper struct {
	scheduler *gocron.Scheduler
	stats     stats.Service
	logger    *slog.Logger
}

// newStreakSweeper schedules the sweep on cronExpr, evaluated in loc.
func newStreakSweeper(svc stats.Service, cronExpr string, loc *time.Location, logger *slog.Logger) (*streakSweeper, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &streakSweeper{
		scheduler: gocron.NewScheduler(loc),
		stats:     svc,
		logger:    logger.With(slog.String("component", "streak_sweeper")),
	}

	if _, err := s.scheduler.Cron(cronExpr).SingletonMode().Do(s.run); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return s, nil
}

// Start runs the scheduler without blocking.
func (s *streakSweeper) Start() {
	s.scheduler.StartAsync()
	s.logger.Info("streak sweep scheduled")
}

// Stop halts the scheduler. A sweep already running finishes first.
func (s *streakSweeper) Stop() {
	s.scheduler.Stop()
}

func (s *streakSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.stats.ResetStaleStreaks(ctx)
	if err != nil {
		s.logger.Error("streak sweep failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("streak sweep completed",
		slog.Int64("reset", n),
		slog.Duration("duration", time.Since(start)))
}
