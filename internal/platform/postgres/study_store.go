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

const cardColumns = `c.id, c.category_id, c.front, c.back, c.card_type, c.created_at`

const joinedMemoryStateColumns = `ms.learner_id, ms.card_id, ms.ease, ms.interval_days, ms.repetitions,
	ms.last_reviewed_at, ms.due_at, ms.version, ms.created_at, ms.updated_at`

// PostgresStudyStore implements the store.StudyStore selection queries.
type PostgresStudyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudyStore creates a new PostgreSQL implementation of the StudyStore interface.
func NewPostgresStudyStore(db store.DBTX, logger *slog.Logger) *PostgresStudyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudyStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_store")),
	}
}

var _ store.StudyStore = (*PostgresStudyStore)(nil)

// ListDue implements store.StudyStore.ListDue
func (s *PostgresStudyStore) ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, q store.StudyQuery) ([]domain.StudyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildDueQuery(learnerID, now, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]domain.StudyCard, 0, q.Limit)
	for rows.Next() {
		var sc domain.StudyCard
		var categoryID uuid.NullUUID
		var cardType string
		var state domain.CardMemoryState
		var lastReviewed sql.NullTime
		if err := rows.Scan(
			&sc.ID, &categoryID, &sc.Front, &sc.Back, &cardType, &sc.CreatedAt,
			&state.LearnerID, &state.CardID, &state.Ease, &state.IntervalDays, &state.Repetitions,
			&lastReviewed, &state.DueAt, &state.Version, &state.CreatedAt, &state.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		fillCard(&sc.Card, categoryID, cardType)
		if lastReviewed.Valid {
			t := lastReviewed.Time
			state.LastReviewedAt = &t
		}
		sc.State = &state
		cards = append(cards, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// ListNew implements store.StudyStore.ListNew
func (s *PostgresStudyStore) ListNew(ctx context.Context, learnerID uuid.UUID, q store.StudyQuery) ([]domain.StudyCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildNewQuery(learnerID, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query new cards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]domain.StudyCard, 0, q.Limit)
	for rows.Next() {
		var sc domain.StudyCard
		var categoryID uuid.NullUUID
		var cardType string
		if err := rows.Scan(&sc.ID, &categoryID, &sc.Front, &sc.Back, &cardType, &sc.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		fillCard(&sc.Card, categoryID, cardType)
		cards = append(cards, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// CountNew implements store.StudyStore.CountNew
func (s *PostgresStudyStore) CountNew(ctx context.Context, learnerID uuid.UUID, f store.StudyFilter) (int, error) {
	query, args := buildNewCountQuery(learnerID, f)
	return countQuery(ctx, s.db, s.logger, "count new cards", query, args...)
}

// CategoryPerformance implements store.StudyStore.CategoryPerformance
func (s *PostgresStudyStore) CategoryPerformance(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]domain.CategoryPerformance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, categoryPerformanceQuery, learnerID, now)
	if err != nil {
		log.Error("failed to query category performance",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]domain.CategoryPerformance, 0)
	for rows.Next() {
		var p domain.CategoryPerformance
		var categoryID uuid.NullUUID
		var name sql.NullString
		var avgEase sql.NullFloat64
		if err := rows.Scan(&categoryID, &name, &p.TotalCards, &p.StudiedCards, &avgEase, &p.DueCards); err != nil {
			return nil, MapError(err)
		}
		if categoryID.Valid {
			id := categoryID.UUID
			p.CategoryID = &id
		}
		p.CategoryName = name.String
		if avgEase.Valid {
			avg := avgEase.Float64
			p.AverageEase = &avg
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}

// categoryPerformanceQuery groups every card by category and left joins the
// learner's memory states, so unstudied categories still appear.
const categoryPerformanceQuery = `
	SELECT c.category_id,
		cat.name,
		COUNT(c.id),
		COUNT(ms.card_id),
		AVG(ms.ease)::float8,
		COUNT(ms.card_id) FILTER (WHERE ms.due_at <= $2)
	FROM cards c
	LEFT JOIN categories cat ON cat.id = c.category_id
	LEFT JOIN memory_states ms ON ms.card_id = c.id AND ms.learner_id = $1
	GROUP BY c.category_id, cat.name
	ORDER BY cat.name ASC NULLS LAST`

func fillCard(card *domain.Card, categoryID uuid.NullUUID, cardType string) {
	if categoryID.Valid {
		id := categoryID.UUID
		card.CategoryID = &id
	}
	card.CardType = domain.CardType(cardType)
}

// queryBuilder accumulates positional arguments for a single statement.
type queryBuilder struct {
	b    strings.Builder
	args []any
}

func (qb *queryBuilder) arg(v any) string {
	qb.args = append(qb.args, v)
	return "$" + strconv.Itoa(len(qb.args))
}

func (qb *queryBuilder) write(parts ...string) {
	for _, p := range parts {
		qb.b.WriteString(p)
	}
}

// writeDeckJoin restricts to cards in the learner's own deck. The inner join
// makes dc.added_at available to every selected row.
func (qb *queryBuilder) writeDeckJoin(learnerParam string, f store.StudyFilter) {
	if f.DeckID == nil {
		return
	}
	qb.write(
		" JOIN deck_cards dc ON dc.card_id = c.id AND dc.deck_id = ", qb.arg(*f.DeckID),
		" JOIN decks d ON d.id = dc.deck_id AND d.learner_id = ", learnerParam,
	)
}

func (qb *queryBuilder) writeCategoryFilter(f store.StudyFilter) {
	if f.CategoryID == nil {
		return
	}
	qb.write(" AND c.category_id = ", qb.arg(*f.CategoryID))
}

// buildDueQuery selects cards with a memory state due at or before now.
func buildDueQuery(learnerID uuid.UUID, now time.Time, q store.StudyQuery) (string, []any) {
	qb := &queryBuilder{}
	learner := qb.arg(learnerID)

	qb.write("SELECT ", cardColumns, ", ", joinedMemoryStateColumns,
		" FROM cards c JOIN memory_states ms ON ms.card_id = c.id AND ms.learner_id = ", learner)
	qb.writeDeckJoin(learner, q.StudyFilter)
	qb.write(" WHERE ms.due_at <= ", qb.arg(now))
	qb.writeCategoryFilter(q.StudyFilter)

	switch q.Order {
	case domain.OrderAdded:
		if q.DeckID != nil {
			qb.write(" ORDER BY dc.added_at ASC, ms.repetitions ASC, c.id ASC")
		} else {
			qb.write(" ORDER BY ms.created_at ASC, ms.repetitions ASC, c.id ASC")
		}
	default:
		qb.write(" ORDER BY ms.repetitions ASC, ms.due_at ASC, c.id ASC")
	}

	qb.write(" LIMIT ", qb.arg(q.Limit))
	return qb.b.String(), qb.args
}

// buildNewQuery selects cards the learner has no memory state for.
func buildNewQuery(learnerID uuid.UUID, q store.StudyQuery) (string, []any) {
	qb := &queryBuilder{}
	learner := qb.arg(learnerID)

	qb.write("SELECT ", cardColumns, " FROM cards c")
	qb.writeNewPredicate(learner, q.StudyFilter)

	switch q.Order {
	case domain.OrderAdded:
		if q.DeckID != nil {
			qb.write(" ORDER BY dc.added_at ASC, c.id ASC")
		} else {
			qb.write(" ORDER BY c.created_at ASC, c.id ASC")
		}
	default:
		qb.write(" ORDER BY random()")
	}

	qb.write(" LIMIT ", qb.arg(q.Limit))
	return qb.b.String(), qb.args
}

func buildNewCountQuery(learnerID uuid.UUID, f store.StudyFilter) (string, []any) {
	qb := &queryBuilder{}
	learner := qb.arg(learnerID)

	qb.write("SELECT COUNT(*) FROM cards c")
	qb.writeNewPredicate(learner, f)
	return qb.b.String(), qb.args
}

func (qb *queryBuilder) writeNewPredicate(learner string, f store.StudyFilter) {
	qb.writeDeckJoin(learner, f)
	qb.write(" WHERE NOT EXISTS (SELECT 1 FROM memory_states ms WHERE ms.card_id = c.id AND ms.learner_id = ",
		learner, ")")
	qb.writeCategoryFilter(f)
}
