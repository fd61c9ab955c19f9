package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrCardNotFound, ErrMemoryStateNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrConcurrencyConflict is returned when a write lost a race with another
	// writer on the same row: a version mismatch on update or a concurrent
	// first insert. The caller may retry.
	ErrConcurrencyConflict = errors.New("concurrent modification")

	// ErrStoreUnavailable is returned when the database could not be reached
	// or a query exceeded its deadline. The caller may retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Entity-specific "not found" errors

	// ErrCardNotFound indicates that the card does not exist in the catalog.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrMemoryStateNotFound indicates that the learner has never reviewed the card.
	ErrMemoryStateNotFound = fmt.Errorf("%w: memory state", ErrNotFound)

	// ErrLearnerStatsNotFound indicates that no aggregate row exists for the learner.
	ErrLearnerStatsNotFound = fmt.Errorf("%w: learner stats", ErrNotFound)

	// ErrLearnerNotFound indicates that the learner does not exist.
	ErrLearnerNotFound = fmt.Errorf("%w: learner", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryableError reports whether a client may safely retry the operation.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, ErrStoreUnavailable)
}
