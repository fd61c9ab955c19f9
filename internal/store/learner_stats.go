package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// LearnerStatsStore persists one domain.LearnerStats row per learner.
type LearnerStatsStore interface {
	// Get retrieves the learner's aggregates.
	// Returns ErrLearnerStatsNotFound if none have been written yet.
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error)

	// GetForUpdate is Get with a row-level lock. It must be called inside a transaction.
	GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error)

	// Upsert inserts or replaces the learner's aggregates in one statement.
	Upsert(ctx context.Context, stats *domain.LearnerStats) error

	// ResetStaleStreaks sets streak_days to 0 for every learner whose last
	// study date is before the given date. It returns the number of rows changed.
	ResetStaleStreaks(ctx context.Context, before time.Time) (int64, error)

	// WithTx returns a new LearnerStatsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearnerStatsStore
}
