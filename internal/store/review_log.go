package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// HistoryQuery filters a learner's review history.
type HistoryQuery struct {
	Since  time.Time // zero means no lower bound
	Limit  int
	Offset int
}

// ReviewLogStore is the append-only history of rating events.
type ReviewLogStore interface {
	// Append stores the event and sets its ID.
	Append(ctx context.Context, event *domain.RatingEvent) error

	// CountByLearner returns the total number of rating events for the learner.
	CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error)

	// CountSince returns the number of rating events at or after since.
	CountSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error)

	// RatingBreakdownSince counts rating events at or after since by rating.
	RatingBreakdownSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (domain.RatingBreakdown, error)

	// AverageRating returns the mean rating over all events, or 0 with none.
	AverageRating(ctx context.Context, learnerID uuid.UUID) (float64, error)

	// DailyActivity groups events at or after since by calendar date in loc,
	// oldest first.
	DailyActivity(ctx context.Context, learnerID uuid.UUID, since time.Time, loc *time.Location) ([]domain.DailyActivity, error)

	// List returns events newest first, joined with their cards.
	List(ctx context.Context, learnerID uuid.UUID, q HistoryQuery) ([]domain.ReviewHistoryEntry, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
