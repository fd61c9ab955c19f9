package srs

import (
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Core limits
	MinEase         float64
	MaxIntervalDays int

	// Adjustments for different ratings
	EaseAdjustment   map[domain.Rating]float64
	IntervalModifier map[domain.Rating]float64

	// Fixed intervals for the first and second successful reviews
	FirstReviewIntervals  map[domain.Rating]int
	SecondReviewIntervals map[domain.Rating]int

	// Interval after a lapse
	AgainIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEase:         domain.MinEase,
		MaxIntervalDays: domain.MaxIntervalDays,

		EaseAdjustment: map[domain.Rating]float64{
			domain.RatingAgain: -0.20,
			domain.RatingHard:  -0.15,
			domain.RatingGood:  0.0,
			domain.RatingEasy:  0.15,
		},

		// Good uses the ease alone; Easy multiplies ease by its modifier.
		IntervalModifier: map[domain.Rating]float64{
			domain.RatingHard: 1.2,
			domain.RatingGood: 1.0,
			domain.RatingEasy: 1.3,
		},

		FirstReviewIntervals: map[domain.Rating]int{
			domain.RatingHard: 1,
			domain.RatingGood: 1,
			domain.RatingEasy: 4,
		},

		// Hard has no fixed second interval and falls through to its modifier.
		SecondReviewIntervals: map[domain.Rating]int{
			domain.RatingGood: 6,
			domain.RatingEasy: 10,
		},

		AgainIntervalDays: 1,
	}
}
