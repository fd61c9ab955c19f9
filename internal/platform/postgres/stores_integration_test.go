//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/postgres"
	"github.com/phrazzld/lingo-srs/internal/store"
	"github.com/phrazzld/lingo-srs/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertCard(t *testing.T, tx *sql.Tx, front string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	testdb.MustExec(t, tx,
		`INSERT INTO cards (id, front, back, card_type, created_at) VALUES ($1, $2, 'back', 'recognition', $3)`,
		id, front, createdAt)
	return id
}

func TestMemoryStateStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Microsecond)
		learnerID := uuid.New()
		cardID := insertCard(t, tx, "hola", now)

		require.NoError(t, postgres.NewPostgresLearnerStore(tx, nil).Ensure(ctx, learnerID))
		require.NoError(t, postgres.NewPostgresLearnerStore(tx, nil).Ensure(ctx, learnerID), "ensure is idempotent")

		states := postgres.NewPostgresMemoryStateStore(tx, nil)

		_, err := states.GetForUpdate(ctx, learnerID, cardID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		state, err := domain.NewCardMemoryState(learnerID, cardID, now)
		require.NoError(t, err)
		state.IntervalDays = 1
		state.Repetitions = 1
		state.LastReviewedAt = &now
		state.DueAt = now.AddDate(0, 0, 1)
		require.NoError(t, states.Create(ctx, state))
		assert.Equal(t, int64(1), state.Version)

		dup, err := domain.NewCardMemoryState(learnerID, cardID, now)
		require.NoError(t, err)
		assert.ErrorIs(t, states.Create(ctx, dup), store.ErrConcurrencyConflict)

		stale := *state
		state.IntervalDays = 6
		require.NoError(t, states.Update(ctx, state))
		assert.Equal(t, int64(2), state.Version)
		assert.ErrorIs(t, states.Update(ctx, &stale), store.ErrConcurrencyConflict)

		got, err := states.Get(ctx, learnerID, cardID)
		require.NoError(t, err)
		assert.Equal(t, 6, got.IntervalDays)
		assert.Equal(t, int64(2), got.Version)

		due, err := states.CountDue(ctx, learnerID, now.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Equal(t, 1, due)
	})
}

func TestStudyStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Microsecond)
		learnerID := uuid.New()
		require.NoError(t, postgres.NewPostgresLearnerStore(tx, nil).Ensure(ctx, learnerID))

		reviewed := insertCard(t, tx, "gato", now.Add(-2*time.Hour))
		fresh := insertCard(t, tx, "perro", now.Add(-time.Hour))

		state, err := domain.NewCardMemoryState(learnerID, reviewed, now.Add(-48*time.Hour))
		require.NoError(t, err)
		require.NoError(t, postgres.NewPostgresMemoryStateStore(tx, nil).Create(ctx, state))

		study := postgres.NewPostgresStudyStore(tx, nil)
		q := store.StudyQuery{Order: domain.OrderAdded, Limit: 1000}

		due, err := study.ListDue(ctx, learnerID, now, q)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, reviewed, due[0].ID)
		require.NotNil(t, due[0].State)

		newCards, err := study.ListNew(ctx, learnerID, q)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(newCards))
		for _, c := range newCards {
			assert.True(t, c.IsNew())
			ids = append(ids, c.ID)
		}
		assert.Contains(t, ids, fresh)
		assert.NotContains(t, ids, reviewed)

		deckID := uuid.New()
		testdb.MustExec(t, tx, `INSERT INTO decks (id, learner_id, name) VALUES ($1, $2, 'animals')`, deckID, learnerID)
		testdb.MustExec(t, tx, `INSERT INTO deck_cards (deck_id, card_id) VALUES ($1, $2)`, deckID, fresh)

		count, err := study.CountNew(ctx, learnerID, store.StudyFilter{DeckID: &deckID})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestReviewLogAndStats_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Microsecond)
		learnerID := uuid.New()
		require.NoError(t, postgres.NewPostgresLearnerStore(tx, nil).Ensure(ctx, learnerID))
		cardID := insertCard(t, tx, "casa", now)

		history := postgres.NewPostgresReviewLogStore(tx, nil)
		for _, r := range []domain.Rating{domain.RatingGood, domain.RatingEasy} {
			event, err := domain.NewRatingEvent(learnerID, cardID, r, 4000, now)
			require.NoError(t, err)
			require.NoError(t, history.Append(ctx, event))
			assert.NotZero(t, event.ID)
		}

		total, err := history.CountByLearner(ctx, learnerID)
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		avg, err := history.AverageRating(ctx, learnerID)
		require.NoError(t, err)
		assert.InDelta(t, 3.5, avg, 0.001)

		entries, err := history.List(ctx, learnerID, store.HistoryQuery{Limit: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "casa", entries[0].Front)

		statsStore := postgres.NewPostgresLearnerStatsStore(tx, nil)
		lastWeek := domain.DateOf(now.AddDate(0, 0, -7), time.UTC)
		require.NoError(t, statsStore.Upsert(ctx, &domain.LearnerStats{
			LearnerID:     learnerID,
			CardsStudied:  1,
			TotalReviews:  2,
			StreakDays:    4,
			LastStudyDate: &lastWeek,
			UpdatedAt:     now,
		}))

		reset, err := statsStore.ResetStaleStreaks(ctx, domain.DateOf(now.AddDate(0, 0, -1), time.UTC))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, reset, int64(1))

		stats, err := statsStore.Get(ctx, learnerID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.StreakDays)
		assert.Equal(t, 2, stats.TotalReviews)
	})
}
