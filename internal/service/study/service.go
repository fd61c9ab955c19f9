// Package study chooses which cards a learner should see next: cards whose
// review is due, topped up with cards the learner has never studied.
package study

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// DefaultMaxLimit bounds Limit when no configured maximum is given.
const DefaultMaxLimit = 500

// Query selects a single list of due or new cards.
type Query struct {
	DeckID     *uuid.UUID
	CategoryID *uuid.UUID
	Limit      int

	// Order is "random" or "added". Empty means random.
	Order string
}

// BatchOptions configures a study session.
type BatchOptions struct {
	DeckID     *uuid.UUID
	CategoryID *uuid.UUID

	// Limit caps the whole batch.
	Limit int

	// NewLimit caps how many never-studied cards may top up the batch.
	NewLimit int

	Order string
}

// StudyBatch is an ordered list of due cards followed by new cards.
type StudyBatch struct {
	Cards    []domain.StudyCard `json:"cards"`
	DueCount int                `json:"due_count"`
	NewCount int                `json:"new_count"`
}

// Service selects cards for study.
type Service interface {
	// SelectStudyBatch returns up to opts.Limit due cards and, when fewer
	// than opts.Limit are due, up to min(opts.NewLimit, remaining) new cards.
	// A card never appears twice. An empty batch is not an error.
	SelectStudyBatch(ctx context.Context, learnerID uuid.UUID, opts BatchOptions) (*StudyBatch, error)

	// ListDue returns the learner's due cards.
	ListDue(ctx context.Context, learnerID uuid.UUID, q Query) ([]domain.StudyCard, error)

	// ListNew returns cards the learner has never reviewed.
	ListNew(ctx context.Context, learnerID uuid.UUID, q Query) ([]domain.StudyCard, error)
}
