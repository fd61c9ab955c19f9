package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Scheduling bounds shared by the calculator and the stores.
const (
	// DefaultEase is the ease factor of a card that has never been reviewed.
	DefaultEase = 2.5

	// MinEase is the floor applied after every ease adjustment.
	MinEase = 1.3

	// MaxIntervalDays caps the review interval at roughly ten years.
	MaxIntervalDays = 3650
)

// Common validation errors for CardMemoryState
var (
	ErrEmptyStateLearnerID = errors.New("memory state learner ID cannot be empty")
	ErrEmptyStateCardID    = errors.New("memory state card ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be between 0 and 3650 days")
	ErrInvalidEase         = errors.New("ease must be at least 1.3")
	ErrInvalidRepetitions  = errors.New("repetitions cannot be negative")
)

// CardMemoryState is a learner's scheduling state for one card.
// There is at most one per (learner, card) pair.
type CardMemoryState struct {
	LearnerID      uuid.UUID  `json:"learner_id"`
	CardID         uuid.UUID  `json:"card_id"`
	Ease           float64    `json:"ease"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	DueAt          time.Time  `json:"due_at"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCardMemoryState returns the default state used for a card's first review:
// ease 2.5, interval 0, repetitions 0, due immediately. Version 0 marks it as
// not yet persisted.
func NewCardMemoryState(learnerID, cardID uuid.UUID, now time.Time) (*CardMemoryState, error) {
	now = now.UTC()
	state := &CardMemoryState{
		LearnerID:    learnerID,
		CardID:       cardID,
		Ease:         DefaultEase,
		IntervalDays: 0,
		Repetitions:  0,
		DueAt:        now,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the CardMemoryState has valid data.
func (s *CardMemoryState) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptyStateLearnerID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}

	if s.IntervalDays < 0 || s.IntervalDays > MaxIntervalDays {
		return ErrInvalidInterval
	}

	if s.Ease < MinEase {
		return ErrInvalidEase
	}

	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}

// IsNew reports whether the state has never been written to the store.
func (s *CardMemoryState) IsNew() bool {
	return s.Version == 0
}

// IsDue reports whether the card should be shown at the given time.
func (s *CardMemoryState) IsDue(now time.Time) bool {
	return !s.DueAt.After(now)
}
