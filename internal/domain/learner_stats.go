package domain

import (
	"time"

	"github.com/google/uuid"
)

// LearnerStats holds a learner's aggregate progress.
type LearnerStats struct {
	LearnerID     uuid.UUID  `json:"learner_id"`
	CardsStudied  int        `json:"cards_studied"`
	TotalReviews  int        `json:"total_reviews"`
	StreakDays    int        `json:"streak_days"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DateOf truncates t to a calendar date in loc. The result is midnight UTC
// of that date so dates compare equal regardless of their source zone.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak returns the streak after studying on today, given the previous
// stats (nil when the learner has none). today must come from DateOf.
func NextStreak(prev *LearnerStats, today time.Time) int {
	if prev == nil || prev.LastStudyDate == nil {
		return 1
	}

	last := DateOf(*prev.LastStudyDate, time.UTC)
	switch {
	case last.Equal(today):
		if prev.StreakDays < 1 {
			return 1
		}
		return prev.StreakDays
	case last.Equal(today.AddDate(0, 0, -1)):
		return prev.StreakDays + 1
	default:
		return 1
	}
}

// DailyActivity is the number of reviews and mean rating on one date.
type DailyActivity struct {
	Date          time.Time `json:"date"`
	Reviews       int       `json:"reviews"`
	AverageRating float64   `json:"average_rating"`
}

// RatingBreakdown counts rating events by rating.
type RatingBreakdown struct {
	Again int `json:"again"`
	Hard  int `json:"hard"`
	Good  int `json:"good"`
	Easy  int `json:"easy"`
}

// Total is the number of events counted.
func (b RatingBreakdown) Total() int {
	return b.Again + b.Hard + b.Good + b.Easy
}

// ReviewSummary is the per-learner overview shown alongside aggregate stats.
type ReviewSummary struct {
	ReviewsToday  int             `json:"reviews_today"`
	RatingsToday  RatingBreakdown `json:"ratings_today"`
	DueNow        int             `json:"due_now"`
	NewAvailable  int             `json:"new_available"`
	AverageRating float64         `json:"average_rating"`
	Weekly        []DailyActivity `json:"weekly"`
}

// CategoryPerformance is a learner's progress within one category. Cards
// without a category are grouped under a nil CategoryID.
type CategoryPerformance struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName string     `json:"category_name"`
	TotalCards   int        `json:"total_cards"`
	StudiedCards int        `json:"studied_cards"`
	// AverageEase is nil until a card in the category has been studied.
	AverageEase *float64 `json:"average_ease"`
	DueCards    int      `json:"due_cards"`
}
