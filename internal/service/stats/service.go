// Package stats maintains per-learner aggregates (cards studied, total
// reviews, daily streak) and serves read-only progress views.
package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// History paging defaults and bounds.
const (
	DefaultHistoryDays  = 30
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500
	MaxHistoryDays      = 3650
)

// Overview is a learner's aggregates together with a summary of recent activity.
type Overview struct {
	Stats   domain.LearnerStats  `json:"stats"`
	Summary domain.ReviewSummary `json:"summary"`
}

// HistoryOptions pages through review history. Zero Days and Limit take the
// defaults.
type HistoryOptions struct {
	Days   int
	Limit  int
	Offset int
}

// Service reads and refreshes learner aggregates.
type Service interface {
	// RefreshStats recomputes the learner's counts and advances the streak
	// for today in the configured time zone.
	RefreshStats(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error)

	// GetOverview returns aggregates and today's summary. A learner with no
	// reviews gets zero values, not an error.
	GetOverview(ctx context.Context, learnerID uuid.UUID) (*Overview, error)

	// History lists rating events from the last opts.Days days, newest first.
	History(ctx context.Context, learnerID uuid.UUID, opts HistoryOptions) ([]domain.ReviewHistoryEntry, error)

	// CategoryPerformance returns the learner's progress in every category,
	// including categories they have not studied yet.
	CategoryPerformance(ctx context.Context, learnerID uuid.UUID) ([]domain.CategoryPerformance, error)

	// ResetStaleStreaks zeroes the streak of every learner who did not study
	// yesterday or today, returning how many learners were affected.
	ResetStaleStreaks(ctx context.Context) (int64, error)
}
