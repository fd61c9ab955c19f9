// Package review records a learner's rating of a card: it advances the card's
// memory state transactionally, appends the rating to the history log and
// notifies listeners that a review was committed.
package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// Answer is a learner's rating of one card.
type Answer struct {
	// Rating is 1 (Again) through 4 (Easy).
	Rating int `json:"rating"`

	// ElapsedMs is the time the learner spent on the card. Nil means unknown.
	ElapsedMs *int `json:"elapsed_ms,omitempty"`
}

// Service processes reviews.
type Service interface {
	// SubmitReview applies the answer to the learner's memory state for the
	// card and returns the new state.
	//
	// Errors:
	//   - domain.ErrInvalidRating when the rating is outside 1-4; nothing is written
	//   - store.ErrCardNotFound when the card is not in the catalog
	//   - store.ErrConcurrencyConflict when another review of the same pair won a race
	//   - store.ErrStoreUnavailable when the database timed out or is unreachable
	//
	// History and stats updates after the commit are best effort and never
	// cause an error.
	SubmitReview(ctx context.Context, learnerID, cardID uuid.UUID, answer Answer) (*domain.CardMemoryState, error)

	// GetProgress returns the learner's current memory state for the card.
	// It returns store.ErrMemoryStateNotFound when the learner has never
	// reviewed the card.
	GetProgress(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error)
}

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewGetProgressError returns a new ServiceError for the get_progress operation.
func NewGetProgressError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "get_progress",
		Message:   message,
		Err:       err,
	}
}

// NewSubmitReviewError returns a new ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_review",
		Message:   message,
		Err:       err,
	}
}
