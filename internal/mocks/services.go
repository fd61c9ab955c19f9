package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/service/auth"
	"github.com/phrazzld/lingo-srs/internal/service/review"
	"github.com/phrazzld/lingo-srs/internal/service/stats"
	"github.com/phrazzld/lingo-srs/internal/service/study"
)

// MockReviewService implements review.Service. SubmitReviewFn and
// GetProgressFn take precedence over the State and Err defaults.
type MockReviewService struct {
	SubmitReviewFn func(ctx context.Context, learnerID, cardID uuid.UUID, answer review.Answer) (*domain.CardMemoryState, error)
	GetProgressFn  func(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error)

	State *domain.CardMemoryState
	Err   error
}

var _ review.Service = (*MockReviewService)(nil)

func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
	answer review.Answer,
) (*domain.CardMemoryState, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, learnerID, cardID, answer)
	}
	return m.State, m.Err
}

func (m *MockReviewService) GetProgress(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, learnerID, cardID)
	}
	return m.State, m.Err
}

// MockStudyService implements study.Service.
type MockStudyService struct {
	SelectStudyBatchFn func(ctx context.Context, learnerID uuid.UUID, opts study.BatchOptions) (*study.StudyBatch, error)
	ListDueFn          func(ctx context.Context, learnerID uuid.UUID, q study.Query) ([]domain.StudyCard, error)
	ListNewFn          func(ctx context.Context, learnerID uuid.UUID, q study.Query) ([]domain.StudyCard, error)

	Batch *study.StudyBatch
	Cards []domain.StudyCard
	Err   error
}

var _ study.Service = (*MockStudyService)(nil)

func (m *MockStudyService) SelectStudyBatch(
	ctx context.Context,
	learnerID uuid.UUID,
	opts study.BatchOptions,
) (*study.StudyBatch, error) {
	if m.SelectStudyBatchFn != nil {
		return m.SelectStudyBatchFn(ctx, learnerID, opts)
	}
	return m.Batch, m.Err
}

func (m *MockStudyService) ListDue(ctx context.Context, learnerID uuid.UUID, q study.Query) ([]domain.StudyCard, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, learnerID, q)
	}
	return m.Cards, m.Err
}

func (m *MockStudyService) ListNew(ctx context.Context, learnerID uuid.UUID, q study.Query) ([]domain.StudyCard, error) {
	if m.ListNewFn != nil {
		return m.ListNewFn(ctx, learnerID, q)
	}
	return m.Cards, m.Err
}

// MockStatsService implements stats.Service.
type MockStatsService struct {
	RefreshStatsFn        func(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error)
	GetOverviewFn         func(ctx context.Context, learnerID uuid.UUID) (*stats.Overview, error)
	HistoryFn             func(ctx context.Context, learnerID uuid.UUID, opts stats.HistoryOptions) ([]domain.ReviewHistoryEntry, error)
	ResetStaleStreaksFn   func(ctx context.Context) (int64, error)
	CategoryPerformanceFn func(ctx context.Context, learnerID uuid.UUID) ([]domain.CategoryPerformance, error)

	Stats      *domain.LearnerStats
	Overview   *stats.Overview
	Entries    []domain.ReviewHistoryEntry
	Categories []domain.CategoryPerformance
	Err        error
}

var _ stats.Service = (*MockStatsService)(nil)

func (m *MockStatsService) RefreshStats(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerStats, error) {
	if m.RefreshStatsFn != nil {
		return m.RefreshStatsFn(ctx, learnerID)
	}
	return m.Stats, m.Err
}

func (m *MockStatsService) GetOverview(ctx context.Context, learnerID uuid.UUID) (*stats.Overview, error) {
	if m.GetOverviewFn != nil {
		return m.GetOverviewFn(ctx, learnerID)
	}
	return m.Overview, m.Err
}

func (m *MockStatsService) History(
	ctx context.Context,
	learnerID uuid.UUID,
	opts stats.HistoryOptions,
) ([]domain.ReviewHistoryEntry, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, learnerID, opts)
	}
	return m.Entries, m.Err
}

func (m *MockStatsService) CategoryPerformance(ctx context.Context, learnerID uuid.UUID) ([]domain.CategoryPerformance, error) {
	if m.CategoryPerformanceFn != nil {
		return m.CategoryPerformanceFn(ctx, learnerID)
	}
	return m.Categories, m.Err
}

func (m *MockStatsService) ResetStaleStreaks(ctx context.Context) (int64, error) {
	if m.ResetStaleStreaksFn != nil {
		return m.ResetStaleStreaksFn(ctx)
	}
	return 0, m.Err
}

// MockJWTService implements auth.JWTService.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, learnerID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	Token       string
	Claims      *auth.Claims
	GenerateErr error
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, learnerID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, learnerID)
	}
	return m.Token, m.GenerateErr
}

func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.ValidateErr
}
