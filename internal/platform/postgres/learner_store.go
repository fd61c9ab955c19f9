package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
)

// PostgresLearnerStore implements the store.LearnerStore interface.
type PostgresLearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of the LearnerStore interface.
func NewPostgresLearnerStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Ensure implements store.LearnerStore.Ensure
func (s *PostgresLearnerStore) Ensure(ctx context.Context, learnerID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learners (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, learnerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to ensure learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return MapError(err)
	}
	return nil
}

// WithTx implements store.LearnerStore.WithTx
func (s *PostgresLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &PostgresLearnerStore{db: tx, logger: s.logger}
}
