package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/api/shared"
	"github.com/phrazzld/lingo-srs/internal/domain"
)

// requireLearner returns the authenticated learner or writes 401.
func requireLearner(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	learnerID, ok := shared.LearnerIDFromContext(r.Context())
	if !ok {
		log.Warn("learner ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return learnerID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// selectionParams are the query parameters shared by the study endpoints.
type selectionParams struct {
	DeckID     *uuid.UUID
	CategoryID *uuid.UUID
	Limit      int
	Order      string
}

func parseSelectionParams(r *http.Request, defaultLimit int) (selectionParams, error) {
	var p selectionParams
	var err error

	if p.Limit, err = shared.QueryInt(r, "limit", defaultLimit); err != nil {
		return p, err
	}
	if p.DeckID, err = shared.QueryUUID(r, "deck_id"); err != nil {
		return p, err
	}
	if p.CategoryID, err = shared.QueryUUID(r, "category_id"); err != nil {
		return p, err
	}
	p.Order = r.URL.Query().Get("order")
	return p, nil
}
