package study_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/mocks"
	"github.com/phrazzld/lingo-srs/internal/service/study"
	"github.com/phrazzld/lingo-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (study.Service, *mocks.MockStudyStore) {
	t.Helper()
	st := &mocks.MockStudyStore{}
	t.Cleanup(func() { st.AssertExpectations(t) })
	svc := study.NewService(st, nil, study.WithClock(func() time.Time { return now }))
	return svc, st
}

func dueCard(id uuid.UUID) domain.StudyCard {
	return domain.StudyCard{
		Card:  domain.Card{ID: id, Front: "la casa", CardType: domain.CardTypeRecognition},
		State: &domain.CardMemoryState{CardID: id, Ease: 2.5, IntervalDays: 1, DueAt: now.Add(-time.Hour), Version: 1},
	}
}

func newCard(id uuid.UUID) domain.StudyCard {
	return domain.StudyCard{Card: domain.Card{ID: id, Front: "el gato", CardType: domain.CardTypeProduction}}
}

func TestSelectStudyBatch_TopsUpWithNewCards(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()
	deck := uuid.New()
	d1, d2 := dueCard(uuid.New()), dueCard(uuid.New())
	n1, n2 := newCard(uuid.New()), newCard(uuid.New())

	st.On("ListDue", mock.Anything, learner, now, store.StudyQuery{
		StudyFilter: store.StudyFilter{DeckID: &deck},
		Order:       domain.OrderAdded,
		Limit:       5,
	}).Return([]domain.StudyCard{d1, d2}, nil)
	st.On("ListNew", mock.Anything, learner, store.StudyQuery{
		StudyFilter: store.StudyFilter{DeckID: &deck},
		Order:       domain.OrderAdded,
		Limit:       2,
	}).Return([]domain.StudyCard{n1, n2}, nil)

	batch, err := svc.SelectStudyBatch(context.Background(), learner, study.BatchOptions{
		DeckID:   &deck,
		Limit:    5,
		NewLimit: 2,
		Order:    "added",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, batch.DueCount)
	assert.Equal(t, 2, batch.NewCount)
	require.Len(t, batch.Cards, 4)
	assert.False(t, batch.Cards[0].IsNew())
	assert.False(t, batch.Cards[1].IsNew())
	assert.True(t, batch.Cards[2].IsNew())
	assert.True(t, batch.Cards[3].IsNew())
}

func TestSelectStudyBatch_NewCapIsRemainingSlots(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()

	st.On("ListDue", mock.Anything, learner, now, mock.Anything).
		Return([]domain.StudyCard{dueCard(uuid.New()), dueCard(uuid.New()), dueCard(uuid.New())}, nil)
	st.On("ListNew", mock.Anything, learner, mock.MatchedBy(func(q store.StudyQuery) bool {
		return q.Limit == 1 && q.Order == domain.OrderRandom
	})).Return([]domain.StudyCard{newCard(uuid.New())}, nil)

	batch, err := svc.SelectStudyBatch(context.Background(), learner, study.BatchOptions{Limit: 4, NewLimit: 10})

	require.NoError(t, err)
	assert.Equal(t, 3, batch.DueCount)
	assert.Equal(t, 1, batch.NewCount)
	assert.Len(t, batch.Cards, 4)
}

func TestSelectStudyBatch_FullOfDueSkipsNewQuery(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()

	st.On("ListDue", mock.Anything, learner, now, mock.Anything).
		Return([]domain.StudyCard{dueCard(uuid.New()), dueCard(uuid.New())}, nil)

	batch, err := svc.SelectStudyBatch(context.Background(), learner, study.BatchOptions{Limit: 2, NewLimit: 5})

	require.NoError(t, err)
	assert.Equal(t, 2, batch.DueCount)
	assert.Zero(t, batch.NewCount)
	st.AssertNotCalled(t, "ListNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectStudyBatch_NeverReturnsCardTwice(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()
	shared := uuid.New()

	st.On("ListDue", mock.Anything, learner, now, mock.Anything).
		Return([]domain.StudyCard{dueCard(shared)}, nil)
	st.On("ListNew", mock.Anything, learner, mock.Anything).
		Return([]domain.StudyCard{newCard(shared), newCard(uuid.New())}, nil)

	batch, err := svc.SelectStudyBatch(context.Background(), learner, study.BatchOptions{Limit: 10, NewLimit: 5})

	require.NoError(t, err)
	assert.Equal(t, 1, batch.DueCount)
	assert.Equal(t, 1, batch.NewCount)

	ids := make(map[uuid.UUID]bool)
	for _, c := range batch.Cards {
		assert.False(t, ids[c.ID], "duplicate card %s", c.ID)
		ids[c.ID] = true
	}
}

func TestSelectStudyBatch_EmptyIsNotAnError(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()

	st.On("ListDue", mock.Anything, learner, now, mock.Anything).Return([]domain.StudyCard{}, nil)
	st.On("ListNew", mock.Anything, learner, mock.Anything).Return(nil, nil)

	batch, err := svc.SelectStudyBatch(context.Background(), learner, study.BatchOptions{Limit: 20, NewLimit: 5})

	require.NoError(t, err)
	assert.Empty(t, batch.Cards)
	assert.NotNil(t, batch.Cards)
}

func TestSelectStudyBatch_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		opts  study.BatchOptions
		field string
	}{
		{"zero limit", study.BatchOptions{Limit: 0, NewLimit: 5}, "limit"},
		{"negative limit", study.BatchOptions{Limit: -3, NewLimit: 5}, "limit"},
		{"limit above max", study.BatchOptions{Limit: 501, NewLimit: 5}, "limit"},
		{"zero new limit", study.BatchOptions{Limit: 10, NewLimit: 0}, "new_limit"},
		{"unknown order", study.BatchOptions{Limit: 10, NewLimit: 5, Order: "alphabetical"}, "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			_, err := svc.SelectStudyBatch(context.Background(), uuid.New(), tt.opts)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSelectStudyBatch_StoreErrorPropagates(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()

	st.On("ListDue", mock.Anything, learner, now, mock.Anything).Return(nil, store.ErrStoreUnavailable)

	_, err := svc.SelectStudyBatch(context.Background(), learner, study.BatchOptions{Limit: 10, NewLimit: 5})

	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestListDueAndNew(t *testing.T) {
	svc, st := newService(t)
	learner := uuid.New()
	category := uuid.New()
	q := store.StudyQuery{
		StudyFilter: store.StudyFilter{CategoryID: &category},
		Order:       domain.OrderRandom,
		Limit:       7,
	}

	st.On("ListDue", mock.Anything, learner, now, q).Return([]domain.StudyCard{dueCard(uuid.New())}, nil)
	st.On("ListNew", mock.Anything, learner, q).Return([]domain.StudyCard{newCard(uuid.New())}, nil)

	due, err := svc.ListDue(context.Background(), learner, study.Query{CategoryID: &category, Limit: 7})
	require.NoError(t, err)
	assert.Len(t, due, 1)

	fresh, err := svc.ListNew(context.Background(), learner, study.Query{CategoryID: &category, Limit: 7, Order: "random"})
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestWithMaxLimit(t *testing.T) {
	st := &mocks.MockStudyStore{}
	svc := study.NewService(st, nil, study.WithMaxLimit(10))

	_, err := svc.ListDue(context.Background(), uuid.New(), study.Query{Limit: 11})

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestNewService_PanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() { study.NewService(nil, nil) })
}
