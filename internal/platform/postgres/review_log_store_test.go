package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewLogStore_RatingBreakdownSince(t *testing.T) {
	t.Parallel()
	learnerID := uuid.New()
	since := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("counts each rating", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresReviewLogStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE rating = 1)")).
			WithArgs(learnerID, since).
			WillReturnRows(sqlmock.NewRows([]string{"again", "hard", "good", "easy"}).AddRow(2, 1, 5, 3))

		got, err := s.RatingBreakdownSince(context.Background(), learnerID, since)

		require.NoError(t, err)
		assert.Equal(t, domain.RatingBreakdown{Again: 2, Hard: 1, Good: 5, Easy: 3}, got)
		assert.Equal(t, 11, got.Total())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure is mapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresReviewLogStore(db, nil)

		mock.ExpectQuery("FROM rating_events").WillReturnError(context.DeadlineExceeded)

		got, err := s.RatingBreakdownSince(context.Background(), learnerID, since)

		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
		assert.Zero(t, got)
	})
}

func TestReviewLogStore_WithTx(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	s := NewPostgresReviewLogStore(db, nil)
	learnerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rating_events WHERE learner_id = $1")).
		WithArgs(learnerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	n, err := s.WithTx(tx).CountByLearner(context.Background(), learnerID)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewLogStore_CountByLearnerError(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	s := NewPostgresReviewLogStore(db, nil)

	mock.ExpectQuery("FROM rating_events").WillReturnError(errors.New("syntax error"))

	_, err := s.CountByLearner(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
