package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
	"golang.org/x/sync/errgroup"
)

// weeklyDays is the length of the activity window in the overview.
const weeklyDays = 7

// Dependencies are the collaborators of the stats service.
type Dependencies struct {
	DB      store.TxBeginner
	Stats   store.LearnerStatsStore
	States  store.MemoryStateStore
	History store.ReviewLogStore
	Study   store.StudyStore

	// Location decides calendar days for streaks. Defaults to UTC.
	Location *time.Location

	// Clock defaults to time.Now.
	Clock func() time.Time
}

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db      store.TxBeginner
	stats   store.LearnerStatsStore
	states  store.MemoryStateStore
	history store.ReviewLogStore
	study   store.StudyStore
	loc     *time.Location
	clock   func() time.Time
	logger  *slog.Logger
}

// NewService creates a stats Service. It panics if a required dependency is nil.
func NewService(deps Dependencies, logger *slog.Logger) Service {
	if deps.DB == nil {
		panic("db cannot be nil")
	}
	if deps.Stats == nil {
		panic("learner stats store cannot be nil")
	}
	if deps.States == nil {
		panic("memory state store cannot be nil")
	}
	if deps.History == nil {
		panic("review log store cannot be nil")
	}
	if deps.Study == nil {
		panic("study store cannot be nil")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:      deps.DB,
		stats:   deps.Stats,
		states:  deps.States,
		history: deps.History,
		study:   deps.Study,
		loc:     deps.Location,
		clock:   deps.Clock,
		logger:  logger.With(slog.String("component", "stats_service")),
	}
}

func (s *serviceImpl) RefreshStats(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("learner_id", learnerID.String()))

	if learnerID == uuid.Nil {
		return nil, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}

	now := s.clock().UTC()
	today := domain.DateOf(now, s.loc)

	// Counts are read after the row lock so a concurrent refresh cannot
	// overwrite newer totals with older ones.
	var next *domain.LearnerStats
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		statsStore := s.stats.WithTx(tx)

		prev, err := statsStore.GetForUpdate(ctx, learnerID)
		if errors.Is(err, store.ErrLearnerStatsNotFound) {
			prev, err = nil, nil
		}
		if err != nil {
			return err
		}

		cardsStudied, err := s.states.WithTx(tx).CountByLearner(ctx, learnerID)
		if err != nil {
			return fmt.Errorf("failed to count studied cards: %w", err)
		}
		totalReviews, err := s.history.WithTx(tx).CountByLearner(ctx, learnerID)
		if err != nil {
			return fmt.Errorf("failed to count reviews: %w", err)
		}

		next = &domain.LearnerStats{
			LearnerID:     learnerID,
			CardsStudied:  cardsStudied,
			TotalReviews:  totalReviews,
			StreakDays:    domain.NextStreak(prev, today),
			LastStudyDate: &today,
			UpdatedAt:     now,
		}
		return statsStore.Upsert(ctx, next)
	})
	if err != nil {
		log.Error("failed to refresh learner stats", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to refresh learner stats: %w", err)
	}

	log.Debug("refreshed learner stats",
		slog.Int("cards_studied", next.CardsStudied),
		slog.Int("total_reviews", next.TotalReviews),
		slog.Int("streak_days", next.StreakDays))

	return next, nil
}

func (s *serviceImpl) GetOverview(ctx context.Context, learnerID uuid.UUID) (*Overview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("learner_id", learnerID.String()))

	if learnerID == uuid.Nil {
		return nil, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}

	now := s.clock().UTC()
	today := domain.DateOf(now, s.loc)
	startOfToday := s.startOfDay(today)

	overview := &Overview{Stats: domain.LearnerStats{LearnerID: learnerID}}
	summary := &overview.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		current, err := s.stats.Get(gctx, learnerID)
		if errors.Is(err, store.ErrLearnerStatsNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		overview.Stats = *current
		return nil
	})
	g.Go(func() error {
		n, err := s.history.CountSince(gctx, learnerID, startOfToday)
		summary.ReviewsToday = n
		return err
	})
	g.Go(func() error {
		b, err := s.history.RatingBreakdownSince(gctx, learnerID, startOfToday)
		summary.RatingsToday = b
		return err
	})
	g.Go(func() error {
		n, err := s.states.CountDue(gctx, learnerID, now)
		summary.DueNow = n
		return err
	})
	g.Go(func() error {
		n, err := s.study.CountNew(gctx, learnerID, store.StudyFilter{})
		summary.NewAvailable = n
		return err
	})
	g.Go(func() error {
		avg, err := s.history.AverageRating(gctx, learnerID)
		summary.AverageRating = math.Round(avg*100) / 100
		return err
	})
	g.Go(func() error {
		since := s.startOfDay(today.AddDate(0, 0, -(weeklyDays - 1)))
		days, err := s.history.DailyActivity(gctx, learnerID, since, s.loc)
		summary.Weekly = days
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load learner overview", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load learner overview: %w", err)
	}

	if summary.Weekly == nil {
		summary.Weekly = []domain.DailyActivity{}
	}

	// A streak is broken once a full day passes without study, even if the
	// nightly sweep has not run yet.
	if last := overview.Stats.LastStudyDate; last != nil && last.Before(today.AddDate(0, 0, -1)) {
		overview.Stats.StreakDays = 0
	}

	return overview, nil
}

func (s *serviceImpl) History(
	ctx context.Context,
	learnerID uuid.UUID,
	opts HistoryOptions,
) ([]domain.ReviewHistoryEntry, error) {
	if learnerID == uuid.Nil {
		return nil, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}

	if opts.Days == 0 {
		opts.Days = DefaultHistoryDays
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Days < 0 || opts.Days > MaxHistoryDays {
		return nil, domain.NewInvalidParameterError("days", fmt.Sprintf("must be between 1 and %d", MaxHistoryDays))
	}
	if opts.Limit < 0 || opts.Limit > MaxHistoryLimit {
		return nil, domain.NewInvalidParameterError("limit", fmt.Sprintf("must be between 1 and %d", MaxHistoryLimit))
	}
	if opts.Offset < 0 {
		return nil, domain.NewInvalidParameterError("offset", "cannot be negative")
	}

	since := s.clock().UTC().AddDate(0, 0, -opts.Days)
	entries, err := s.history.List(ctx, learnerID, store.HistoryQuery{
		Since:  since,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list review history",
			slog.String("learner_id", learnerID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list review history: %w", err)
	}
	if entries == nil {
		entries = []domain.ReviewHistoryEntry{}
	}
	return entries, nil
}

func (s *serviceImpl) CategoryPerformance(ctx context.Context, learnerID uuid.UUID) ([]domain.CategoryPerformance, error) {
	if learnerID == uuid.Nil {
		return nil, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}

	result, err := s.study.CategoryPerformance(ctx, learnerID, s.clock().UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load category performance",
			slog.String("learner_id", learnerID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load category performance: %w", err)
	}
	if result == nil {
		result = []domain.CategoryPerformance{}
	}
	return result, nil
}

func (s *serviceImpl) ResetStaleStreaks(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	yesterday := domain.DateOf(s.clock(), s.loc).AddDate(0, 0, -1)
	n, err := s.stats.ResetStaleStreaks(ctx, yesterday)
	if err != nil {
		log.Error("failed to reset stale streaks", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to reset stale streaks: %w", err)
	}

	log.Info("reset stale streaks",
		slog.Int64("learners", n),
		slog.String("before", yesterday.Format(time.DateOnly)))
	return n, nil
}

// startOfDay returns the instant the calendar date begins in the service's zone.
func (s *serviceImpl) startOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc).UTC()
}
