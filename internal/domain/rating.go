package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rating is the learner's self-assessed recall for a single review.
type Rating int

// Possible rating values. The numeric values are part of the HTTP contract.
const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Elapsed-time bounds for a rating event, in milliseconds.
const (
	MinElapsedMs     = 0
	MaxElapsedMs     = 300000
	DefaultElapsedMs = 5000
)

// Valid reports whether r is one of Again, Hard, Good or Easy.
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// String returns the lower-case name of the rating.
func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return fmt.Sprintf("rating(%d)", int(r))
	}
}

// ParseRating converts an integer into a Rating, returning ErrInvalidRating
// for anything outside 1-4.
func ParseRating(v int) (Rating, error) {
	r := Rating(v)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %d (must be 1-4)", ErrInvalidRating, v)
	}
	return r, nil
}

// ClampElapsedMs bounds an elapsed review time to [MinElapsedMs, MaxElapsedMs].
func ClampElapsedMs(ms int) int {
	if ms < MinElapsedMs {
		return MinElapsedMs
	}
	if ms > MaxElapsedMs {
		return MaxElapsedMs
	}
	return ms
}

// ElapsedOrDefault returns the clamped elapsed time, or DefaultElapsedMs when
// the client did not report one.
func ElapsedOrDefault(ms *int) int {
	if ms == nil {
		return DefaultElapsedMs
	}
	return ClampElapsedMs(*ms)
}

// RatingEvent is an immutable record of one review action.
type RatingEvent struct {
	ID         int64     `json:"id"`
	LearnerID  uuid.UUID `json:"learner_id"`
	CardID     uuid.UUID `json:"card_id"`
	Rating     Rating    `json:"rating"`
	ElapsedMs  int       `json:"elapsed_ms"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// NewRatingEvent builds a RatingEvent with the elapsed time already clamped.
// The ID is assigned by the store on append.
func NewRatingEvent(learnerID, cardID uuid.UUID, rating Rating, elapsedMs int, at time.Time) (*RatingEvent, error) {
	event := &RatingEvent{
		LearnerID:  learnerID,
		CardID:     cardID,
		Rating:     rating,
		ElapsedMs:  ClampElapsedMs(elapsedMs),
		ReviewedAt: at.UTC(),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// Validate checks the event's identifiers, rating and elapsed time.
func (e *RatingEvent) Validate() error {
	if e.LearnerID == uuid.Nil {
		return NewValidationError("learner_id", "cannot be empty", ErrInvalidID)
	}
	if e.CardID == uuid.Nil {
		return NewValidationError("card_id", "cannot be empty", ErrInvalidID)
	}
	if !e.Rating.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRating, int(e.Rating))
	}
	if e.ElapsedMs < MinElapsedMs || e.ElapsedMs > MaxElapsedMs {
		return NewValidationError("elapsed_ms", "out of range", ErrValidation)
	}
	return nil
}

// ReviewHistoryEntry is a rating event joined with the card it rated.
type ReviewHistoryEntry struct {
	RatingEvent
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	CardType CardType `json:"card_type"`
}
