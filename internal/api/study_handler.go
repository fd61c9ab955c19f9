package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-srs/internal/api/shared"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/service/study"
)

// StudyDefaults are the limits applied when a request omits them.
type StudyDefaults struct {
	Limit    int
	NewLimit int
}

// StudyHandler serves card selection endpoints.
type StudyHandler struct {
	study    study.Service
	defaults StudyDefaults
	logger   *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(svc study.Service, defaults StudyDefaults, logger *slog.Logger) *StudyHandler {
	if svc == nil {
		panic("study service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		study:    svc,
		defaults: defaults,
		logger:   logger.With(slog.String("component", "study_handler")),
	}
}

// GetDue handles GET /api/study/due.
func (h *StudyHandler) GetDue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}
	p, err := parseSelectionParams(r, h.defaults.Limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.study.ListDue(r.Context(), learnerID, study.Query(p))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load due cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{
		Cards: studyCardsToResponse(cards),
		Count: len(cards),
	})
}

// GetNew handles GET /api/study/new.
func (h *StudyHandler) GetNew(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}
	p, err := parseSelectionParams(r, h.defaults.NewLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.study.ListNew(r.Context(), learnerID, study.Query(p))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load new cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{
		Cards: studyCardsToResponse(cards),
		Count: len(cards),
	})
}

// GetSession handles GET /api/study/session.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}
	p, err := parseSelectionParams(r, h.defaults.Limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	newLimit, err := shared.QueryInt(r, "new_limit", h.defaults.NewLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	batch, err := h.study.SelectStudyBatch(r.Context(), learnerID, study.BatchOptions{
		DeckID:     p.DeckID,
		CategoryID: p.CategoryID,
		Limit:      p.Limit,
		NewLimit:   newLimit,
		Order:      p.Order,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build study session")
		return
	}

	log.Debug("study session selected",
		slog.Int("due_count", batch.DueCount),
		slog.Int("new_count", batch.NewCount))
	shared.RespondWithJSON(w, r, http.StatusOK, StudySessionResponse{
		Cards:    studyCardsToResponse(batch.Cards),
		DueCount: batch.DueCount,
		NewCount: batch.NewCount,
	})
}
