package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
)

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	cards    store.StudyStore
	maxLimit int
	clock    func() time.Time
	logger   *slog.Logger
}

// Option customizes the study service.
type Option func(*serviceImpl)

// WithMaxLimit overrides DefaultMaxLimit. Non-positive values are ignored.
func WithMaxLimit(n int) Option {
	return func(s *serviceImpl) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithClock sets the time source used to decide dueness.
func WithClock(clock func() time.Time) Option {
	return func(s *serviceImpl) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService creates a study Service. It panics if studyStore is nil.
func NewService(studyStore store.StudyStore, logger *slog.Logger, opts ...Option) Service {
	if studyStore == nil {
		panic("study store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		cards:    studyStore,
		maxLimit: DefaultMaxLimit,
		clock:    time.Now,
		logger:   logger.With(slog.String("component", "study_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) SelectStudyBatch(
	ctx context.Context,
	learnerID uuid.UUID,
	opts BatchOptions,
) (*StudyBatch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("learner_id", learnerID.String()))

	q, err := s.buildQuery(learnerID, Query{
		DeckID:     opts.DeckID,
		CategoryID: opts.CategoryID,
		Limit:      opts.Limit,
		Order:      opts.Order,
	})
	if err != nil {
		return nil, err
	}
	if opts.NewLimit <= 0 {
		return nil, domain.NewInvalidParameterError("new_limit", "must be a positive integer")
	}

	due, err := s.cards.ListDue(ctx, learnerID, s.clock().UTC(), q)
	if err != nil {
		log.Error("failed to list due cards", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	batch := &StudyBatch{
		Cards:    make([]domain.StudyCard, 0, len(due)),
		DueCount: len(due),
	}
	batch.Cards = append(batch.Cards, due...)

	if len(due) < q.Limit {
		newQuery := q
		newQuery.Limit = min(opts.NewLimit, q.Limit-len(due))

		fresh, err := s.cards.ListNew(ctx, learnerID, newQuery)
		if err != nil {
			log.Error("failed to list new cards", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to list new cards: %w", err)
		}

		seen := make(map[uuid.UUID]struct{}, len(batch.Cards))
		for _, c := range batch.Cards {
			seen[c.ID] = struct{}{}
		}
		for _, c := range fresh {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			batch.Cards = append(batch.Cards, c)
			batch.NewCount++
		}
	}

	log.Debug("selected study batch",
		slog.Int("due_count", batch.DueCount),
		slog.Int("new_count", batch.NewCount),
		slog.String("order", string(q.Order)))

	return batch, nil
}

func (s *serviceImpl) ListDue(ctx context.Context, learnerID uuid.UUID, q Query) ([]domain.StudyCard, error) {
	sq, err := s.buildQuery(learnerID, q)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.ListDue(ctx, learnerID, s.clock().UTC(), sq)
	if err != nil {
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}
	return cards, nil
}

func (s *serviceImpl) ListNew(ctx context.Context, learnerID uuid.UUID, q Query) ([]domain.StudyCard, error) {
	sq, err := s.buildQuery(learnerID, q)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.ListNew(ctx, learnerID, sq)
	if err != nil {
		return nil, fmt.Errorf("failed to list new cards: %w", err)
	}
	return cards, nil
}

// buildQuery validates q before any query runs.
func (s *serviceImpl) buildQuery(learnerID uuid.UUID, q Query) (store.StudyQuery, error) {
	if learnerID == uuid.Nil {
		return store.StudyQuery{}, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}
	if q.Limit <= 0 || q.Limit > s.maxLimit {
		return store.StudyQuery{}, domain.NewInvalidParameterError(
			"limit", fmt.Sprintf("must be between 1 and %d", s.maxLimit))
	}
	order, err := domain.ParseStudyOrder(q.Order)
	if err != nil {
		return store.StudyQuery{}, err
	}

	return store.StudyQuery{
		StudyFilter: store.StudyFilter{DeckID: q.DeckID, CategoryID: q.CategoryID},
		Order:       order,
		Limit:       q.Limit,
	}, nil
}
