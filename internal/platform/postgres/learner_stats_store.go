package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
)

// PostgresLearnerStatsStore implements the store.LearnerStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStatsStore creates a new PostgreSQL implementation of the LearnerStatsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLearnerStatsStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_stats_store")),
	}
}

var _ store.LearnerStatsStore = (*PostgresLearnerStatsStore)(nil)

const learnerStatsSelect = `
	SELECT learner_id, cards_studied, total_reviews, streak_days, last_study_date, updated_at
	FROM learner_stats
	WHERE learner_id = $1`

// Get implements store.LearnerStatsStore.Get
func (s *PostgresLearnerStatsStore) Get(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	return s.get(ctx, learnerStatsSelect, learnerID)
}

// GetForUpdate implements store.LearnerStatsStore.GetForUpdate
func (s *PostgresLearnerStatsStore) GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	return s.get(ctx, learnerStatsSelect+" FOR UPDATE", learnerID)
}

func (s *PostgresLearnerStatsStore) get(ctx context.Context, query string, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	var stats domain.LearnerStats
	var lastStudy sql.NullTime

	err := s.db.QueryRowContext(ctx, query, learnerID).Scan(
		&stats.LearnerID,
		&stats.CardsStudied,
		&stats.TotalReviews,
		&stats.StreakDays,
		&lastStudy,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearnerStatsNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get learner stats",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}

	if lastStudy.Valid {
		d := domain.DateOf(lastStudy.Time, time.UTC)
		stats.LastStudyDate = &d
	}
	return &stats, nil
}

// Upsert implements store.LearnerStatsStore.Upsert
func (s *PostgresLearnerStatsStore) Upsert(ctx context.Context, stats *domain.LearnerStats) error {
	query := `
		INSERT INTO learner_stats
			(learner_id, cards_studied, total_reviews, streak_days, last_study_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (learner_id) DO UPDATE SET
			cards_studied = EXCLUDED.cards_studied,
			total_reviews = EXCLUDED.total_reviews,
			streak_days = EXCLUDED.streak_days,
			last_study_date = EXCLUDED.last_study_date,
			updated_at = EXCLUDED.updated_at
	`

	var lastStudy any
	if stats.LastStudyDate != nil {
		lastStudy = stats.LastStudyDate.Format(time.DateOnly)
	}

	_, err := s.db.ExecContext(ctx, query,
		stats.LearnerID,
		stats.CardsStudied,
		stats.TotalReviews,
		stats.StreakDays,
		lastStudy,
		stats.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert learner stats",
			slog.String("error", err.Error()),
			slog.String("learner_id", stats.LearnerID.String()))
		return MapError(err)
	}
	return nil
}

// ResetStaleStreaks implements store.LearnerStatsStore.ResetStaleStreaks
func (s *PostgresLearnerStatsStore) ResetStaleStreaks(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE learner_stats
		SET streak_days = 0, updated_at = NOW()
		WHERE streak_days > 0 AND last_study_date < $1::date`,
		before.Format(time.DateOnly),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to reset stale streaks",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// WithTx implements store.LearnerStatsStore.WithTx
func (s *PostgresLearnerStatsStore) WithTx(tx *sql.Tx) store.LearnerStatsStore {
	return &PostgresLearnerStatsStore{db: tx, logger: s.logger}
}
