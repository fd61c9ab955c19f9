package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// on the append-only rating_events table.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, event *domain.RatingEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO rating_events (learner_id, card_id, rating, elapsed_ms, reviewed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		event.LearnerID,
		event.CardID,
		int(event.Rating),
		event.ElapsedMs,
		event.ReviewedAt,
	).Scan(&event.ID)
	if err != nil {
		log.Error("failed to append rating event",
			slog.String("error", err.Error()),
			slog.String("learner_id", event.LearnerID.String()),
			slog.String("card_id", event.CardID.String()))
		return MapError(err)
	}
	return nil
}

// CountByLearner implements store.ReviewLogStore.CountByLearner
func (s *PostgresReviewLogStore) CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error) {
	return countQuery(ctx, s.db, s.logger, "count rating events",
		`SELECT COUNT(*) FROM rating_events WHERE learner_id = $1`, learnerID)
}

// CountSince implements store.ReviewLogStore.CountSince
func (s *PostgresReviewLogStore) CountSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error) {
	return countQuery(ctx, s.db, s.logger, "count recent rating events",
		`SELECT COUNT(*) FROM rating_events WHERE learner_id = $1 AND reviewed_at >= $2`, learnerID, since)
}

// RatingBreakdownSince implements store.ReviewLogStore.RatingBreakdownSince
func (s *PostgresReviewLogStore) RatingBreakdownSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (domain.RatingBreakdown, error) {
	var b domain.RatingBreakdown
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE rating = 1),
			COUNT(*) FILTER (WHERE rating = 2),
			COUNT(*) FILTER (WHERE rating = 3),
			COUNT(*) FILTER (WHERE rating = 4)
		FROM rating_events
		WHERE learner_id = $1 AND reviewed_at >= $2`,
		learnerID, since,
	).Scan(&b.Again, &b.Hard, &b.Good, &b.Easy)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count ratings by value",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return domain.RatingBreakdown{}, MapError(err)
	}
	return b, nil
}

// AverageRating implements store.ReviewLogStore.AverageRating
func (s *PostgresReviewLogStore) AverageRating(ctx context.Context, learnerID uuid.UUID) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8 FROM rating_events WHERE learner_id = $1`,
		learnerID,
	).Scan(&avg)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to average ratings",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return 0, MapError(err)
	}
	return avg, nil
}

// DailyActivity implements store.ReviewLogStore.DailyActivity
func (s *PostgresReviewLogStore) DailyActivity(ctx context.Context, learnerID uuid.UUID, since time.Time, loc *time.Location) ([]domain.DailyActivity, error) {
	if loc == nil {
		loc = time.UTC
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT (reviewed_at AT TIME ZONE $3)::date AS day,
			COUNT(*),
			AVG(rating)::float8
		FROM rating_events
		WHERE learner_id = $1 AND reviewed_at >= $2
		GROUP BY day
		ORDER BY day`,
		learnerID, since, loc.String(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query daily activity",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	days := make([]domain.DailyActivity, 0, 7)
	for rows.Next() {
		var d domain.DailyActivity
		if err := rows.Scan(&d.Date, &d.Reviews, &d.AverageRating); err != nil {
			return nil, MapError(err)
		}
		d.Date = domain.DateOf(d.Date, time.UTC)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return days, nil
}

// List implements store.ReviewLogStore.List
func (s *PostgresReviewLogStore) List(ctx context.Context, learnerID uuid.UUID, q store.HistoryQuery) ([]domain.ReviewHistoryEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildHistoryQuery(learnerID, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list rating events",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]domain.ReviewHistoryEntry, 0)
	for rows.Next() {
		var e domain.ReviewHistoryEntry
		var rating int
		var cardType string
		if err := rows.Scan(
			&e.ID,
			&e.LearnerID,
			&e.CardID,
			&rating,
			&e.ElapsedMs,
			&e.ReviewedAt,
			&e.Front,
			&e.Back,
			&cardType,
		); err != nil {
			return nil, MapError(err)
		}
		e.Rating = domain.Rating(rating)
		e.CardType = domain.CardType(cardType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

func buildHistoryQuery(learnerID uuid.UUID, q store.HistoryQuery) (string, []any) {
	var b strings.Builder
	args := []any{learnerID}

	b.WriteString(`SELECT e.id, e.learner_id, e.card_id, e.rating, e.elapsed_ms, e.reviewed_at,
		c.front, c.back, c.card_type
		FROM rating_events e
		JOIN cards c ON c.id = e.card_id
		WHERE e.learner_id = $1`)

	if !q.Since.IsZero() {
		args = append(args, q.Since)
		b.WriteString(" AND e.reviewed_at >= $" + strconv.Itoa(len(args)))
	}

	b.WriteString(" ORDER BY e.reviewed_at DESC, e.id DESC")

	if q.Limit > 0 {
		args = append(args, q.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	return b.String(), args
}
