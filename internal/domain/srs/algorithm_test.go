package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculateNewEase(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		rating   domain.Rating
		expected float64
	}{
		{"again lowers ease", 2.5, domain.RatingAgain, 2.3},
		{"hard lowers ease", 2.5, domain.RatingHard, 2.35},
		{"good keeps ease", 2.5, domain.RatingGood, 2.5},
		{"easy raises ease", 2.5, domain.RatingEasy, 2.65},
		{"again floors at minimum", 1.4, domain.RatingAgain, 1.3},
		{"hard floors at minimum", 1.3, domain.RatingHard, 1.3},
		{"good lifts ease below floor", 1.2, domain.RatingGood, 1.3},
		{"easy has no upper cap", 3.0, domain.RatingEasy, 3.15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewEase(tc.current, tc.rating, params)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		reps     int
		ease     float64
		rating   domain.Rating
		expected int
	}{
		{"again resets to one day", 10, 3, 2.5, domain.RatingAgain, 1},
		{"again on new card", 0, 0, 2.5, domain.RatingAgain, 1},
		{"hard first review", 0, 0, 2.5, domain.RatingHard, 1},
		{"hard second review multiplies", 1, 1, 2.5, domain.RatingHard, 1},
		{"hard grows by 1.2", 10, 3, 2.5, domain.RatingHard, 12},
		{"hard rounds product", 5, 2, 2.5, domain.RatingHard, 6},
		{"hard never below one", 0, 2, 2.5, domain.RatingHard, 1},
		{"good first review", 0, 0, 2.5, domain.RatingGood, 1},
		{"good second review", 1, 1, 2.5, domain.RatingGood, 6},
		{"good multiplies by ease", 6, 2, 2.5, domain.RatingGood, 15},
		{"good rounds product", 7, 2, 2.3, domain.RatingGood, 16},
		{"easy first review", 0, 0, 2.5, domain.RatingEasy, 4},
		{"easy second review", 4, 1, 2.5, domain.RatingEasy, 10},
		{"easy multiplies by ease and bonus", 10, 2, 2.5, domain.RatingEasy, 33},
		{"good capped at max interval", 3000, 5, 2.5, domain.RatingGood, 3650},
		{"easy capped at max interval", 3650, 9, 2.5, domain.RatingEasy, 3650},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewInterval(tc.current, tc.reps, tc.ease, tc.rating, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCalculateNextState(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	original := domain.CardMemoryState{
		LearnerID:    uuid.New(),
		CardID:       uuid.New(),
		Ease:         2.0,
		IntervalDays: 10,
		Repetitions:  3,
		DueAt:        now.AddDate(0, 0, -1),
		Version:      4,
	}

	next := calculateNextState(original, domain.RatingGood, now, params)

	assert.Equal(t, 2.0, original.Ease, "input must not be modified")
	assert.Equal(t, 10, original.IntervalDays, "input must not be modified")
	assert.Nil(t, original.LastReviewedAt, "input must not be modified")

	assert.Equal(t, original.LearnerID, next.LearnerID)
	assert.Equal(t, original.CardID, next.CardID)
	assert.Equal(t, int64(4), next.Version, "version is owned by the store")
	assert.Equal(t, 20, next.IntervalDays)
	assert.Equal(t, 4, next.Repetitions)
	if assert.NotNil(t, next.LastReviewedAt) {
		assert.Equal(t, now, *next.LastReviewedAt)
	}
	assert.Equal(t, now.AddDate(0, 0, 20), next.DueAt)
	assert.Equal(t, now, next.UpdatedAt)
}
