package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// SubmitReviewRequest is the body of POST /api/cards/{id}/review.
// Rating range is checked by the service so that it maps to ErrInvalidRating.
type SubmitReviewRequest struct {
	Rating    *int `json:"rating" validate:"required"`
	ElapsedMs *int `json:"elapsed_ms,omitempty"`
}

// ReviewResponse is the card's schedule after a review, also returned by
// GET /api/cards/{id}/progress.
type ReviewResponse struct {
	CardID       uuid.UUID `json:"card_id"`
	Ease         float64   `json:"ease"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	LastReview   time.Time `json:"last_review"`
	NextReview   time.Time `json:"next_review"`
}

func reviewToResponse(state *domain.CardMemoryState) ReviewResponse {
	resp := ReviewResponse{
		CardID:       state.CardID,
		Ease:         state.Ease,
		IntervalDays: state.IntervalDays,
		Repetitions:  state.Repetitions,
		NextReview:   state.DueAt,
	}
	if state.LastReviewedAt != nil {
		resp.LastReview = *state.LastReviewedAt
	}
	return resp
}

// StudyCardResponse is a card with its schedule, if the learner has one.
type StudyCardResponse struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	CardType     domain.CardType `json:"card_type"`
	IsNew        bool            `json:"is_new"`
	Ease         *float64        `json:"ease,omitempty"`
	IntervalDays *int            `json:"interval_days,omitempty"`
	Repetitions  *int            `json:"repetitions,omitempty"`
	LastReview   *time.Time      `json:"last_review,omitempty"`
	NextReview   *time.Time      `json:"next_review,omitempty"`
}

func studyCardsToResponse(cards []domain.StudyCard) []StudyCardResponse {
	out := make([]StudyCardResponse, 0, len(cards))
	for _, c := range cards {
		resp := StudyCardResponse{
			ID:         c.ID,
			CategoryID: c.CategoryID,
			Front:      c.Front,
			Back:       c.Back,
			CardType:   c.CardType,
			IsNew:      c.IsNew(),
		}
		if s := c.State; s != nil {
			ease, interval, reps, due := s.Ease, s.IntervalDays, s.Repetitions, s.DueAt
			resp.Ease = &ease
			resp.IntervalDays = &interval
			resp.Repetitions = &reps
			resp.LastReview = s.LastReviewedAt
			resp.NextReview = &due
		}
		out = append(out, resp)
	}
	return out
}

// CardListResponse is returned by /api/study/due and /api/study/new.
type CardListResponse struct {
	Cards []StudyCardResponse `json:"cards"`
	Count int                 `json:"count"`
}

// StudySessionResponse is returned by /api/study/session.
type StudySessionResponse struct {
	Cards    []StudyCardResponse `json:"cards"`
	DueCount int                 `json:"due_count"`
	NewCount int                 `json:"new_count"`
}

// HistoryResponse is returned by /api/stats/history.
type HistoryResponse struct {
	Reviews []domain.ReviewHistoryEntry `json:"reviews"`
	Count   int                         `json:"count"`
	Limit   int                         `json:"limit"`
	Offset  int                         `json:"offset"`
}

// CategoryPerformanceResponse is returned by /api/stats/categories.
type CategoryPerformanceResponse struct {
	Categories []domain.CategoryPerformance `json:"categories"`
}
