package review_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/domain/srs"
	"github.com/phrazzld/lingo-srs/internal/events"
	"github.com/phrazzld/lingo-srs/internal/mocks"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/service/review"
	"github.com/phrazzld/lingo-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	sql      sqlmock.Sqlmock
	learners *mocks.MockLearnerStore
	cards    *mocks.MockCardStore
	states   *mocks.MockMemoryStateStore
	history  *mocks.MockReviewLogStore
	emitter  *events.InMemoryEventEmitter
	emitted  []*events.Event
	logs     *logger.TestLogBuffer
	ctx      context.Context
	svc      review.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, log, logs := logger.NewTestLogger(t)

	f := &fixture{
		sql:      sqlMock,
		learners: &mocks.MockLearnerStore{},
		cards:    &mocks.MockCardStore{},
		states:   &mocks.MockMemoryStateStore{},
		history:  &mocks.MockReviewLogStore{},
		emitter:  events.NewInMemoryEventEmitter(log),
		logs:     logs,
		ctx:      ctx,
	}
	f.emitter.RegisterHandler(events.EventHandlerFunc(func(_ context.Context, e *events.Event) error {
		f.emitted = append(f.emitted, e)
		return nil
	}))

	f.svc = review.NewService(review.Dependencies{
		DB:       db,
		Learners: f.learners,
		Cards:    f.cards,
		States:   f.states,
		History:  f.history,
		SRS:      srs.NewDefaultService(),
		Emitter:  f.emitter,
		Clock:    func() time.Time { return fixedNow },
	}, log)

	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		f.learners.AssertExpectations(t)
		f.cards.AssertExpectations(t)
		f.states.AssertExpectations(t)
		f.history.AssertExpectations(t)
	})
	return f
}

func card(id uuid.UUID) *domain.Card {
	return &domain.Card{
		ID:        id,
		Front:     "el perro",
		Back:      "the dog",
		CardType:  domain.CardTypeRecognition,
		CreatedAt: fixedNow.Add(-24 * time.Hour),
	}
}

func intPtr(v int) *int { return &v }

func TestSubmitReview_InvalidRatingWritesNothing(t *testing.T) {
	for _, rating := range []int{0, 5, -1} {
		f := newFixture(t)

		state, err := f.svc.SubmitReview(f.ctx, uuid.New(), uuid.New(), review.Answer{Rating: rating})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
		assert.Nil(t, state)
		assert.Empty(t, f.emitted)
	}
}

func TestSubmitReview_NilIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitReview(f.ctx, uuid.Nil, uuid.New(), review.Answer{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.SubmitReview(f.ctx, uuid.New(), uuid.Nil, review.Answer{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestSubmitReview_CardNotFound(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(nil, store.ErrCardNotFound)
	f.sql.ExpectRollback()

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 3})

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.Nil(t, state)

	var svcErr *review.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "submit_review", svcErr.Operation)
	assert.Empty(t, f.emitted)
}

func TestSubmitReview_FirstReviewCreatesState(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card(cardID), nil)
	f.learners.On("Ensure", mock.Anything, learnerID).Return(nil)
	f.states.On("GetForUpdate", mock.Anything, learnerID, cardID).Return(nil, store.ErrMemoryStateNotFound)
	f.states.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.CardMemoryState) bool {
		return s.LearnerID == learnerID && s.CardID == cardID &&
			s.IntervalDays == 1 && s.Repetitions == 1 && s.Ease == domain.DefaultEase
	})).Return(nil)
	f.sql.ExpectCommit()
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.RatingEvent) bool {
		return e.Rating == domain.RatingGood && e.ElapsedMs == 4200 && e.ReviewedAt.Equal(fixedNow)
	})).Return(nil).Once()

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 3, ElapsedMs: intPtr(4200)})

	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 1, state.IntervalDays)
	assert.Equal(t, fixedNow.AddDate(0, 0, 1), state.DueAt)
	require.NotNil(t, state.LastReviewedAt)
	assert.Equal(t, fixedNow, *state.LastReviewedAt)

	require.Len(t, f.emitted, 1)
	assert.Equal(t, events.EventTypeReviewCommitted, f.emitted[0].Type)
	var payload events.ReviewCommitted
	require.NoError(t, f.emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, learnerID, payload.LearnerID)
	assert.Equal(t, 3, payload.Rating)
}

func TestSubmitReview_ExistingStateUpdates(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()
	last := fixedNow.AddDate(0, 0, -6)
	existing := &domain.CardMemoryState{
		LearnerID:      learnerID,
		CardID:         cardID,
		Ease:           2.5,
		IntervalDays:   6,
		Repetitions:    2,
		LastReviewedAt: &last,
		DueAt:          fixedNow,
		Version:        3,
	}

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card(cardID), nil)
	f.learners.On("Ensure", mock.Anything, learnerID).Return(nil)
	f.states.On("GetForUpdate", mock.Anything, learnerID, cardID).Return(existing, nil)
	f.states.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.CardMemoryState) bool {
		return s.IntervalDays == 15 && s.Repetitions == 3 && s.Version == 3
	})).Return(nil)
	f.sql.ExpectCommit()
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.RatingEvent) bool {
		return e.ElapsedMs == domain.DefaultElapsedMs
	})).Return(nil).Once()

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 3})

	require.NoError(t, err)
	assert.Equal(t, 15, state.IntervalDays)
	assert.Equal(t, fixedNow.AddDate(0, 0, 15), state.DueAt)
}

func TestSubmitReview_ConcurrencyConflict(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()
	existing, err := domain.NewCardMemoryState(learnerID, cardID, fixedNow)
	require.NoError(t, err)
	existing.Version = 1

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card(cardID), nil)
	f.learners.On("Ensure", mock.Anything, learnerID).Return(nil)
	f.states.On("GetForUpdate", mock.Anything, learnerID, cardID).Return(existing, nil)
	f.states.On("Update", mock.Anything, mock.Anything).Return(store.ErrConcurrencyConflict)
	f.sql.ExpectRollback()

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 1})

	assert.Nil(t, state)
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.True(t, store.IsRetryableError(err))
	assert.Empty(t, f.emitted)
}

func TestSubmitReview_HistoryRetriedWithDefaultElapsed(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card(cardID), nil)
	f.learners.On("Ensure", mock.Anything, learnerID).Return(nil)
	f.states.On("GetForUpdate", mock.Anything, learnerID, cardID).Return(nil, store.ErrMemoryStateNotFound)
	f.states.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.RatingEvent) bool {
		return e.ElapsedMs == domain.MaxElapsedMs
	})).Return(errors.New("insert failed")).Once()
	f.history.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.RatingEvent) bool {
		return e.ElapsedMs == domain.DefaultElapsedMs
	})).Return(nil).Once()

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 4, ElapsedMs: intPtr(900000)})

	require.NoError(t, err)
	assert.Equal(t, 4, state.IntervalDays)
	logger.AssertLogContains(t, f.logs, "retrying with default elapsed time")
}

func TestSubmitReview_PostCommitFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()
	f.emitter.RegisterHandler(events.EventHandlerFunc(func(context.Context, *events.Event) error {
		return errors.New("stats refresh failed")
	}))

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card(cardID), nil)
	f.learners.On("Ensure", mock.Anything, learnerID).Return(nil)
	f.states.On("GetForUpdate", mock.Anything, learnerID, cardID).Return(nil, store.ErrMemoryStateNotFound)
	f.states.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit()
	f.history.On("Append", mock.Anything, mock.Anything).Return(store.ErrStoreUnavailable).Twice()

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 2})

	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 1, state.IntervalDays)
	logger.AssertLogContains(t, f.logs, "failed to append rating event")
	logger.AssertLogContains(t, f.logs, "post-review handlers failed")
}

func TestSubmitReview_StoreUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		beginErr error
	}{
		{"dial refused", errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")},
		{"deadline exceeded", context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			learnerID, cardID := uuid.New(), uuid.New()

			f.sql.ExpectBegin().WillReturnError(tt.beginErr)

			state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 3})

			assert.Nil(t, state)
			assert.ErrorIs(t, err, store.ErrStoreUnavailable)
			assert.ErrorIs(t, err, store.ErrTransactionFailed)
			assert.True(t, store.IsRetryableError(err))
			assert.Empty(t, f.emitted)
		})
	}
}

func TestSubmitReview_CommitSerializationFailureIsConflict(t *testing.T) {
	f := newFixture(t)
	learnerID, cardID := uuid.New(), uuid.New()

	f.sql.ExpectBegin()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card(cardID), nil)
	f.learners.On("Ensure", mock.Anything, learnerID).Return(nil)
	f.states.On("GetForUpdate", mock.Anything, learnerID, cardID).Return(nil, store.ErrMemoryStateNotFound)
	f.states.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.sql.ExpectCommit().WillReturnError(&pgconn.PgError{Code: store.SerializationFailureCode})

	state, err := f.svc.SubmitReview(f.ctx, learnerID, cardID, review.Answer{Rating: 3})

	assert.Nil(t, state)
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.True(t, store.IsRetryableError(err))
	assert.Empty(t, f.emitted)
}

func TestGetProgress(t *testing.T) {
	t.Run("returns the stored state", func(t *testing.T) {
		f := newFixture(t)
		learnerID, cardID := uuid.New(), uuid.New()
		existing, err := domain.NewCardMemoryState(learnerID, cardID, fixedNow)
		require.NoError(t, err)

		f.states.On("Get", mock.Anything, learnerID, cardID).Return(existing, nil)

		got, err := f.svc.GetProgress(f.ctx, learnerID, cardID)

		require.NoError(t, err)
		assert.Equal(t, existing, got)
	})

	t.Run("never reviewed is not found", func(t *testing.T) {
		f := newFixture(t)
		learnerID, cardID := uuid.New(), uuid.New()

		f.states.On("Get", mock.Anything, learnerID, cardID).Return(nil, store.ErrMemoryStateNotFound)

		got, err := f.svc.GetProgress(f.ctx, learnerID, cardID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrMemoryStateNotFound)
		var svcErr *review.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get_progress", svcErr.Operation)
	})

	t.Run("store failure is logged", func(t *testing.T) {
		f := newFixture(t)
		learnerID, cardID := uuid.New(), uuid.New()

		f.states.On("Get", mock.Anything, learnerID, cardID).Return(nil, store.ErrStoreUnavailable)

		_, err := f.svc.GetProgress(f.ctx, learnerID, cardID)

		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
		logger.AssertLogContains(t, f.logs, "failed to load card progress")
	})

	t.Run("nil ids", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetProgress(f.ctx, uuid.Nil, uuid.New())
		assert.ErrorIs(t, err, domain.ErrInvalidID)

		_, err = f.svc.GetProgress(f.ctx, uuid.New(), uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestNewService_PanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() {
		review.NewService(review.Dependencies{}, nil)
	})
}
