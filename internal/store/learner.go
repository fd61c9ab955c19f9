package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// LearnerStore tracks the learners known to the scheduler. Accounts are
// managed elsewhere; the scheduler only needs a row to reference.
type LearnerStore interface {
	// Ensure inserts the learner if it does not exist yet.
	Ensure(ctx context.Context, learnerID uuid.UUID) error

	// WithTx returns a new LearnerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearnerStore
}
