package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lingo-srs/internal/domain"
)

// calculateNewEase applies the rating's adjustment and the ease floor.
// The result is rounded to two decimals so repeated adjustments do not drift.
func calculateNewEase(currentEase float64, rating domain.Rating, params *Params) float64 {
	newEase := currentEase + params.EaseAdjustment[rating]
	if newEase < params.MinEase {
		newEase = params.MinEase
	}
	return roundTo(newEase, 2)
}

// calculateNewInterval determines the interval in days for the next review.
//
// Again always returns AgainIntervalDays. The first successful review uses
// FirstReviewIntervals, the second uses SecondReviewIntervals when the rating
// has one, and later reviews multiply the current interval. Multiplication
// uses the ease from before this review. The result is capped at
// MaxIntervalDays.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	ease float64,
	rating domain.Rating,
	params *Params,
) int {
	if rating == domain.RatingAgain {
		return params.AgainIntervalDays
	}

	var interval int
	if fixed, ok := fixedInterval(repetitions, rating, params); ok {
		interval = fixed
	} else {
		switch rating {
		case domain.RatingHard:
			interval = int(math.Round(float64(currentInterval) * params.IntervalModifier[rating]))
			if interval < 1 {
				interval = 1
			}
		case domain.RatingGood:
			interval = int(math.Round(float64(currentInterval) * ease * params.IntervalModifier[rating]))
		case domain.RatingEasy:
			interval = int(math.Round(float64(currentInterval) * ease * params.IntervalModifier[rating]))
		}
	}

	if interval > params.MaxIntervalDays {
		interval = params.MaxIntervalDays
	}
	return interval
}

func fixedInterval(repetitions int, rating domain.Rating, params *Params) (int, bool) {
	switch repetitions {
	case 0:
		v, ok := params.FirstReviewIntervals[rating]
		return v, ok
	case 1:
		v, ok := params.SecondReviewIntervals[rating]
		return v, ok
	}
	return 0, false
}

// calculateNextState returns a copy of state updated for the given rating.
// The input is never modified.
func calculateNextState(
	state domain.CardMemoryState,
	rating domain.Rating,
	now time.Time,
	params *Params,
) domain.CardMemoryState {
	next := state
	now = now.UTC()

	next.Ease = calculateNewEase(state.Ease, rating, params)
	next.IntervalDays = calculateNewInterval(
		state.IntervalDays,
		state.Repetitions,
		state.Ease,
		rating,
		params,
	)

	if rating == domain.RatingAgain {
		next.Repetitions = 0
	} else {
		next.Repetitions = state.Repetitions + 1
	}

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	next.UpdatedAt = now

	return next
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
