package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// StudyFilter restricts selection to a deck and/or a category.
// Nil fields mean no restriction.
type StudyFilter struct {
	DeckID     *uuid.UUID
	CategoryID *uuid.UUID
}

// StudyQuery is a validated selection request.
type StudyQuery struct {
	StudyFilter
	Order domain.StudyOrder
	Limit int
}

// StudyStore answers the due and new selection queries.
type StudyStore interface {
	// ListDue returns cards with a memory state for the learner and
	// due_at <= now, in the order requested.
	ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, q StudyQuery) ([]domain.StudyCard, error)

	// ListNew returns cards the learner has no memory state for.
	ListNew(ctx context.Context, learnerID uuid.UUID, q StudyQuery) ([]domain.StudyCard, error)

	// CountNew returns how many cards matching the filter the learner has never studied.
	CountNew(ctx context.Context, learnerID uuid.UUID, f StudyFilter) (int, error)

	// CategoryPerformance summarizes the learner's progress per category,
	// ordered by category name with uncategorized cards last.
	CategoryPerformance(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]domain.CategoryPerformance, error)
}
