package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockLearnerStore is a testify mock of store.LearnerStore.
type MockLearnerStore struct {
	mock.Mock
}

var _ store.LearnerStore = (*MockLearnerStore)(nil)

func (m *MockLearnerStore) Ensure(ctx context.Context, learnerID uuid.UUID) error {
	return m.Called(ctx, learnerID).Error(0)
}

// WithTx returns the mock itself so expectations carry across transactions.
func (m *MockLearnerStore) WithTx(*sql.Tx) store.LearnerStore { return m }

// MockCardStore is a testify mock of store.CardStore.
type MockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*MockCardStore)(nil)

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) WithTx(*sql.Tx) store.CardStore { return m }

// MockMemoryStateStore is a testify mock of store.MemoryStateStore.
type MockMemoryStateStore struct {
	mock.Mock
}

var _ store.MemoryStateStore = (*MockMemoryStateStore)(nil)

func (m *MockMemoryStateStore) Get(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	args := m.Called(ctx, learnerID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardMemoryState), args.Error(1)
}

func (m *MockMemoryStateStore) GetForUpdate(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	args := m.Called(ctx, learnerID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardMemoryState), args.Error(1)
}

func (m *MockMemoryStateStore) Create(ctx context.Context, state *domain.CardMemoryState) error {
	return m.Called(ctx, state).Error(0)
}

func (m *MockMemoryStateStore) Update(ctx context.Context, state *domain.CardMemoryState) error {
	return m.Called(ctx, state).Error(0)
}

func (m *MockMemoryStateStore) CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error) {
	args := m.Called(ctx, learnerID)
	return args.Int(0), args.Error(1)
}

func (m *MockMemoryStateStore) CountDue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	args := m.Called(ctx, learnerID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockMemoryStateStore) WithTx(*sql.Tx) store.MemoryStateStore { return m }

// MockReviewLogStore is a testify mock of store.ReviewLogStore.
type MockReviewLogStore struct {
	mock.Mock
}

var _ store.ReviewLogStore = (*MockReviewLogStore)(nil)

func (m *MockReviewLogStore) Append(ctx context.Context, event *domain.RatingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockReviewLogStore) CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error) {
	args := m.Called(ctx, learnerID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewLogStore) CountSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, learnerID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewLogStore) RatingBreakdownSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (domain.RatingBreakdown, error) {
	args := m.Called(ctx, learnerID, since)
	return args.Get(0).(domain.RatingBreakdown), args.Error(1)
}

func (m *MockReviewLogStore) AverageRating(ctx context.Context, learnerID uuid.UUID) (float64, error) {
	args := m.Called(ctx, learnerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReviewLogStore) DailyActivity(ctx context.Context, learnerID uuid.UUID, since time.Time, loc *time.Location) ([]domain.DailyActivity, error) {
	args := m.Called(ctx, learnerID, since, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyActivity), args.Error(1)
}

func (m *MockReviewLogStore) List(ctx context.Context, learnerID uuid.UUID, q store.HistoryQuery) ([]domain.ReviewHistoryEntry, error) {
	args := m.Called(ctx, learnerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewHistoryEntry), args.Error(1)
}

func (m *MockReviewLogStore) WithTx(*sql.Tx) store.ReviewLogStore { return m }

// MockLearnerStatsStore is a testify mock of store.LearnerStatsStore.
type MockLearnerStatsStore struct {
	mock.Mock
}

var _ store.LearnerStatsStore = (*MockLearnerStatsStore)(nil)

func (m *MockLearnerStatsStore) Get(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerStats), args.Error(1)
}

func (m *MockLearnerStatsStore) GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerStats), args.Error(1)
}

func (m *MockLearnerStatsStore) Upsert(ctx context.Context, stats *domain.LearnerStats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *MockLearnerStatsStore) ResetStaleStreaks(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLearnerStatsStore) WithTx(*sql.Tx) store.LearnerStatsStore { return m }

// MockStudyStore is a testify mock of store.StudyStore.
type MockStudyStore struct {
	mock.Mock
}

var _ store.StudyStore = (*MockStudyStore)(nil)

func (m *MockStudyStore) ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, q store.StudyQuery) ([]domain.StudyCard, error) {
	args := m.Called(ctx, learnerID, now, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudyCard), args.Error(1)
}

func (m *MockStudyStore) ListNew(ctx context.Context, learnerID uuid.UUID, q store.StudyQuery) ([]domain.StudyCard, error) {
	args := m.Called(ctx, learnerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StudyCard), args.Error(1)
}

func (m *MockStudyStore) CountNew(ctx context.Context, learnerID uuid.UUID, f store.StudyFilter) (int, error) {
	args := m.Called(ctx, learnerID, f)
	return args.Int(0), args.Error(1)
}

func (m *MockStudyStore) CategoryPerformance(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]domain.CategoryPerformance, error) {
	args := m.Called(ctx, learnerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryPerformance), args.Error(1)
}
