package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// MemoryStateStore persists one domain.CardMemoryState per (learner, card).
type MemoryStateStore interface {
	// Get retrieves the memory state without locking.
	// Returns ErrMemoryStateNotFound if the learner has never reviewed the card.
	Get(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error)

	// GetForUpdate retrieves the memory state with a row-level lock using
	// SELECT FOR UPDATE. It must be called inside a transaction.
	// Returns ErrMemoryStateNotFound if the row does not exist.
	GetForUpdate(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error)

	// Create inserts the first memory state for a pair and sets its Version to 1.
	// Returns ErrConcurrencyConflict if another writer created the row first.
	Create(ctx context.Context, state *domain.CardMemoryState) error

	// Update writes the state if the stored version still equals state.Version,
	// then increments state.Version.
	// Returns ErrConcurrencyConflict on a version mismatch.
	Update(ctx context.Context, state *domain.CardMemoryState) error

	// CountByLearner returns the number of distinct cards the learner has studied.
	CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error)

	// CountDue returns the number of the learner's cards with due_at <= now.
	CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error)

	// WithTx returns a new MemoryStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) MemoryStateStore
}
