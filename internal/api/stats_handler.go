package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-srs/internal/api/shared"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/service/stats"
)

// StatsHandler serves learner progress endpoints.
type StatsHandler struct {
	stats  stats.Service
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc stats.Service, logger *slog.Logger) *StatsHandler {
	if svc == nil {
		panic("stats service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		stats:  svc,
		logger: logger.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /api/stats.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	overview, err := h.stats.GetOverview(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// GetHistory handles GET /api/stats/history.
func (h *StatsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	var opts stats.HistoryOptions
	var err error
	if opts.Days, err = shared.QueryInt(r, "days", stats.DefaultHistoryDays); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if opts.Limit, err = shared.QueryInt(r, "limit", stats.DefaultHistoryLimit); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if opts.Offset, err = shared.QueryInt(r, "offset", 0); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.stats.History(r.Context(), learnerID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load review history")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Reviews: entries,
		Count:   len(entries),
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
}

// GetCategories handles GET /api/stats/categories.
func (h *StatsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearner(w, r, log)
	if !ok {
		return
	}

	categories, err := h.stats.CategoryPerformance(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load category performance")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CategoryPerformanceResponse{Categories: categories})
}
