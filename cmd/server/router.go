package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingo-srs/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-srs/internal/api/middleware"
)

// setupRouter builds the chi router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	if timeout := app.config.Server.RequestTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	reviewLimiter := apiMiddleware.NewLearnerRateLimiter(
		app.config.RateLimit.ReviewsPerSecond,
		app.config.RateLimit.Burst,
	)

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, api.StudyDefaults{
		Limit:    app.config.Study.DefaultLimit,
		NewLimit: app.config.Study.DefaultNewLimit,
	}, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(reviewLimiter.Limit).Post("/cards/{id}/review", reviewHandler.SubmitReview)
		r.Get("/cards/{id}/progress", reviewHandler.GetProgress)

		r.Get("/study/due", studyHandler.GetDue)
		r.Get("/study/new", studyHandler.GetNew)
		r.Get("/study/session", studyHandler.GetSession)

		r.Get("/stats", statsHandler.GetStats)
		r.Get("/stats/history", statsHandler.GetHistory)
		r.Get("/stats/categories", statsHandler.GetCategories)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
