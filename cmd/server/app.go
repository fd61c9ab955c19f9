package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingo-srs/internal/config"
	"github.com/phrazzld/lingo-srs/internal/domain/srs"
	"github.com/phrazzld/lingo-srs/internal/events"
	"github.com/phrazzld/lingo-srs/internal/platform/postgres"
	"github.com/phrazzld/lingo-srs/internal/service/auth"
	"github.com/phrazzld/lingo-srs/internal/service/review"
	"github.com/phrazzld/lingo-srs/internal/service/stats"
	"github.com/phrazzld/lingo-srs/internal/service/study"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService    auth.JWTService
	reviewService review.Service
	studyService  study.Service
	statsService  stats.Service

	sweeper *streakSweeper
}

// newApplication wires stores, services and the review-committed event
// handler on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	loc, err := cfg.Study.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid study time zone: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	learnerStore := postgres.NewPostgresLearnerStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	stateStore := postgres.NewPostgresMemoryStateStore(db, logger)
	historyStore := postgres.NewPostgresReviewLogStore(db, logger)
	statsStore := postgres.NewPostgresLearnerStatsStore(db, logger)
	studyStore := postgres.NewPostgresStudyStore(db, logger)

	statsService := stats.NewService(stats.Dependencies{
		DB:       db,
		Stats:    statsStore,
		States:   stateStore,
		History:  historyStore,
		Study:    studyStore,
		Location: loc,
	}, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(stats.NewReviewCommittedHandler(statsService))

	reviewService := review.NewService(review.Dependencies{
		DB:       db,
		Learners: learnerStore,
		Cards:    cardStore,
		States:   stateStore,
		History:  historyStore,
		SRS:      srs.NewDefaultService(),
		Emitter:  emitter,
	}, logger)

	studyService := study.NewService(studyStore, logger, study.WithMaxLimit(cfg.Study.MaxLimit))

	sweeper, err := newStreakSweeper(statsService, cfg.Study.StreakSweepCron, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule streak sweep: %w", err)
	}

	logger.Info("application initialized")
	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		jwtService:    jwtService,
		reviewService: reviewService,
		studyService:  studyService,
		statsService:  statsService,
		sweeper:       sweeper,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if app.sweeper != nil {
		app.sweeper.Start()
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background jobs and closes the database.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
