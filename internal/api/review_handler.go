package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-srs/internal/api/shared"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/redact"
	"github.com/phrazzld/lingo-srs/internal/service/review"
)

// ReviewHandler handles review submissions.
type ReviewHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews review.Service, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("review service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /api/cards/{id}/review.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid card ID", slog.String("value", redact.String(r.URL.Path)))
		HandleAPIError(w, r, err, "")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, domain.ErrInvalidRating, "")
		return
	}

	state, err := h.reviews.SubmitReview(r.Context(), learnerID, cardID, review.Answer{
		Rating:    *req.Rating,
		ElapsedMs: req.ElapsedMs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Int("rating", *req.Rating),
		slog.Int("interval_days", state.IntervalDays))
	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(state))
}

// GetProgress handles GET /api/cards/{id}/progress.
func (h *ReviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid card ID", slog.String("value", redact.String(r.URL.Path)))
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.reviews.GetProgress(r.Context(), learnerID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load card progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(state))
}
