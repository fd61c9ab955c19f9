// Package srs implements the review outcome calculator: an SM-2 variant that
// turns a card's memory state and a rating into the next ease, interval and
// due date. It performs no I/O.
package srs

import (
	"time"

	"github.com/phrazzld/lingo-srs/internal/domain"
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the next memory state for a rating.
	// It returns domain.ErrInvalidRating for ratings outside 1-4.
	CalculateNextReview(
		state domain.CardMemoryState,
		rating domain.Rating,
		now time.Time,
	) (domain.CardMemoryState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

var _ Service = (*defaultService)(nil)

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		panic("params cannot be nil")
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface
func (s *defaultService) CalculateNextReview(
	state domain.CardMemoryState,
	rating domain.Rating,
	now time.Time,
) (domain.CardMemoryState, error) {
	if _, err := domain.ParseRating(int(rating)); err != nil {
		return state, err
	}
	return calculateNextState(state, rating, now, s.params), nil
}

var defaultCalculator = NewDefaultService()

// ComputeNext computes the next memory state using the default parameters.
func ComputeNext(
	state domain.CardMemoryState,
	rating domain.Rating,
	now time.Time,
) (domain.CardMemoryState, error) {
	return defaultCalculator.CalculateNextReview(state, rating, now)
}
