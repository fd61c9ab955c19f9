package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
)

const memoryStateColumns = `learner_id, card_id, ease, interval_days, repetitions,
	last_reviewed_at, due_at, version, created_at, updated_at`

// PostgresMemoryStateStore implements the store.MemoryStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMemoryStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMemoryStateStore creates a new PostgreSQL implementation of the MemoryStateStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresMemoryStateStore(db store.DBTX, logger *slog.Logger) *PostgresMemoryStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMemoryStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_state_store")),
	}
}

// Ensure PostgresMemoryStateStore implements store.MemoryStateStore interface
var _ store.MemoryStateStore = (*PostgresMemoryStateStore)(nil)

// Get implements store.MemoryStateStore.Get
func (s *PostgresMemoryStateStore) Get(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	query := `SELECT ` + memoryStateColumns + `
		FROM memory_states
		WHERE learner_id = $1 AND card_id = $2`
	return s.get(ctx, query, learnerID, cardID)
}

// GetForUpdate implements store.MemoryStateStore.GetForUpdate
// The row stays locked until the surrounding transaction ends.
func (s *PostgresMemoryStateStore) GetForUpdate(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	query := `SELECT ` + memoryStateColumns + `
		FROM memory_states
		WHERE learner_id = $1 AND card_id = $2
		FOR UPDATE`
	return s.get(ctx, query, learnerID, cardID)
}

func (s *PostgresMemoryStateStore) get(ctx context.Context, query string, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := scanMemoryState(s.db.QueryRowContext(ctx, query, learnerID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMemoryStateNotFound
		}
		log.Error("failed to get memory state",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	return state, nil
}

// Create implements store.MemoryStateStore.Create
// A concurrent first review of the same pair makes the insert a no-op,
// which is reported as store.ErrConcurrencyConflict.
func (s *PostgresMemoryStateStore) Create(ctx context.Context, state *domain.CardMemoryState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("memory state validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO memory_states (` + memoryStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		ON CONFLICT (learner_id, card_id) DO NOTHING
		RETURNING version
	`

	var version int64
	err := s.db.QueryRowContext(ctx, query,
		state.LearnerID,
		state.CardID,
		state.Ease,
		state.IntervalDays,
		state.Repetitions,
		nullTime(state.LastReviewedAt),
		state.DueAt,
		state.CreatedAt,
		state.UpdatedAt,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("memory state created concurrently",
				slog.String("learner_id", state.LearnerID.String()),
				slog.String("card_id", state.CardID.String()))
			return store.ErrConcurrencyConflict
		}
		log.Error("failed to create memory state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("card_id", state.CardID.String()))
		return MapError(err)
	}

	state.Version = version
	return nil
}

// Update implements store.MemoryStateStore.Update
func (s *PostgresMemoryStateStore) Update(ctx context.Context, state *domain.CardMemoryState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("memory state validation failed during update",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE memory_states
		SET ease = $3,
			interval_days = $4,
			repetitions = $5,
			last_reviewed_at = $6,
			due_at = $7,
			updated_at = $8,
			version = version + 1
		WHERE learner_id = $1 AND card_id = $2 AND version = $9
	`

	result, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		state.CardID,
		state.Ease,
		state.IntervalDays,
		state.Repetitions,
		nullTime(state.LastReviewedAt),
		state.DueAt,
		state.UpdatedAt,
		state.Version,
	)
	if err != nil {
		log.Error("failed to update memory state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("card_id", state.CardID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrConcurrencyConflict); err != nil {
		if errors.Is(err, store.ErrConcurrencyConflict) {
			log.Info("memory state version mismatch",
				slog.String("learner_id", state.LearnerID.String()),
				slog.String("card_id", state.CardID.String()),
				slog.Int64("version", state.Version))
		}
		return err
	}

	state.Version++
	return nil
}

// CountByLearner implements store.MemoryStateStore.CountByLearner
func (s *PostgresMemoryStateStore) CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error) {
	return countQuery(ctx, s.db, s.logger, "count studied cards",
		`SELECT COUNT(*) FROM memory_states WHERE learner_id = $1`, learnerID)
}

// CountDue implements store.MemoryStateStore.CountDue
func (s *PostgresMemoryStateStore) CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	return countQuery(ctx, s.db, s.logger, "count due cards",
		`SELECT COUNT(*) FROM memory_states WHERE learner_id = $1 AND due_at <= $2`, learnerID, now)
}

// WithTx implements store.MemoryStateStore.WithTx
func (s *PostgresMemoryStateStore) WithTx(tx *sql.Tx) store.MemoryStateStore {
	return &PostgresMemoryStateStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemoryState(row rowScanner) (*domain.CardMemoryState, error) {
	var state domain.CardMemoryState
	var lastReviewed sql.NullTime

	err := row.Scan(
		&state.LearnerID,
		&state.CardID,
		&state.Ease,
		&state.IntervalDays,
		&state.Repetitions,
		&lastReviewed,
		&state.DueAt,
		&state.Version,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		t := lastReviewed.Time
		state.LastReviewedAt = &t
	}
	return &state, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// countQuery runs a single-column COUNT query.
func countQuery(ctx context.Context, db store.DBTX, fallback *slog.Logger, op, query string, args ...any) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, fallback).Error("failed to "+op,
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}
