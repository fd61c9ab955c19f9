package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-srs/internal/domain"
	"github.com/phrazzld/lingo-srs/internal/domain/srs"
	"github.com/phrazzld/lingo-srs/internal/events"
	"github.com/phrazzld/lingo-srs/internal/platform/logger"
	"github.com/phrazzld/lingo-srs/internal/store"
)

// Dependencies are the collaborators of the review service.
type Dependencies struct {
	DB       store.TxBeginner
	Learners store.LearnerStore
	Cards    store.CardStore
	States   store.MemoryStateStore
	History  store.ReviewLogStore
	SRS      srs.Service
	Emitter  events.EventEmitter

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db       store.TxBeginner
	learners store.LearnerStore
	cards    store.CardStore
	states   store.MemoryStateStore
	history  store.ReviewLogStore
	srs      srs.Service
	emitter  events.EventEmitter
	clock    func() time.Time
	logger   *slog.Logger
}

// NewService creates a new review Service. It panics if a required dependency is nil.
func NewService(deps Dependencies, logger *slog.Logger) Service {
	if deps.DB == nil {
		panic("db cannot be nil")
	}
	if deps.Learners == nil {
		panic("learner store cannot be nil")
	}
	if deps.Cards == nil {
		panic("card store cannot be nil")
	}
	if deps.States == nil {
		panic("memory state store cannot be nil")
	}
	if deps.History == nil {
		panic("review log store cannot be nil")
	}
	if deps.SRS == nil {
		panic("srs service cannot be nil")
	}
	if deps.Emitter == nil {
		panic("event emitter cannot be nil")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:       deps.DB,
		learners: deps.Learners,
		cards:    deps.Cards,
		states:   deps.States,
		history:  deps.History,
		srs:      deps.SRS,
		emitter:  deps.Emitter,
		clock:    deps.Clock,
		logger:   logger.With(slog.String("component", "review_service")),
	}
}

// SubmitReview implements Service.SubmitReview.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
	answer Answer,
) (*domain.CardMemoryState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learner_id", learnerID.String()),
		slog.String("card_id", cardID.String()))

	rating, err := domain.ParseRating(answer.Rating)
	if err != nil {
		log.Warn("invalid rating", slog.Int("rating", answer.Rating))
		return nil, err
	}
	if learnerID == uuid.Nil {
		return nil, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}
	if cardID == uuid.Nil {
		return nil, domain.NewValidationError("card_id", "cannot be empty", domain.ErrInvalidID)
	}

	now := s.clock().UTC()

	var next domain.CardMemoryState
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.cards.WithTx(tx).GetByID(ctx, cardID); err != nil {
			return err
		}

		if err := s.learners.WithTx(tx).Ensure(ctx, learnerID); err != nil {
			return fmt.Errorf("failed to register learner: %w", err)
		}

		states := s.states.WithTx(tx)
		current, err := states.GetForUpdate(ctx, learnerID, cardID)
		if errors.Is(err, store.ErrMemoryStateNotFound) {
			current, err = domain.NewCardMemoryState(learnerID, cardID, now)
		}
		if err != nil {
			return err
		}

		next, err = s.srs.CalculateNextReview(*current, rating, now)
		if err != nil {
			return err
		}

		if current.IsNew() {
			return states.Create(ctx, &next)
		}
		return states.Update(ctx, &next)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCardNotFound):
			log.Debug("card not found for review")
		case errors.Is(err, store.ErrConcurrencyConflict):
			log.Info("review lost a concurrent update")
		default:
			log.Error("failed to submit review", slog.String("error", err.Error()))
		}
		return nil, NewSubmitReviewError("failed to record review", err)
	}

	s.appendHistory(ctx, log, learnerID, cardID, rating, domain.ElapsedOrDefault(answer.ElapsedMs), now)
	s.emitCommitted(ctx, log, learnerID, cardID, rating, now)

	log.Debug("review recorded",
		slog.String("rating", rating.String()),
		slog.Float64("ease", next.Ease),
		slog.Int("interval_days", next.IntervalDays),
		slog.Time("due_at", next.DueAt))

	return &next, nil
}

// GetProgress implements Service.GetProgress.
func (s *serviceImpl) GetProgress(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.CardMemoryState, error) {
	if learnerID == uuid.Nil {
		return nil, domain.NewValidationError("learner_id", "cannot be empty", domain.ErrInvalidID)
	}
	if cardID == uuid.Nil {
		return nil, domain.NewValidationError("card_id", "cannot be empty", domain.ErrInvalidID)
	}

	state, err := s.states.Get(ctx, learnerID, cardID)
	if err != nil {
		if !errors.Is(err, store.ErrMemoryStateNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load card progress",
				slog.String("learner_id", learnerID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("error", err.Error()))
		}
		return nil, NewGetProgressError("failed to load card progress", err)
	}
	return state, nil
}

// appendHistory writes the rating event. A failed append is retried once
// with the default elapsed time; a second failure is only logged.
func (s *serviceImpl) appendHistory(
	ctx context.Context,
	log *slog.Logger,
	learnerID, cardID uuid.UUID,
	rating domain.Rating,
	elapsedMs int,
	at time.Time,
) {
	event, err := domain.NewRatingEvent(learnerID, cardID, rating, elapsedMs, at)
	if err == nil {
		err = s.history.Append(ctx, event)
	}
	if err == nil {
		return
	}

	log.Warn("failed to append rating event, retrying with default elapsed time",
		slog.String("error", err.Error()),
		slog.Int("elapsed_ms", elapsedMs))

	event, err = domain.NewRatingEvent(learnerID, cardID, rating, domain.DefaultElapsedMs, at)
	if err == nil {
		err = s.history.Append(ctx, event)
	}
	if err != nil {
		log.Error("failed to append rating event", slog.String("error", err.Error()))
	}
}

func (s *serviceImpl) emitCommitted(
	ctx context.Context,
	log *slog.Logger,
	learnerID, cardID uuid.UUID,
	rating domain.Rating,
	at time.Time,
) {
	event, err := events.NewReviewCommittedEvent(events.ReviewCommitted{
		LearnerID:  learnerID,
		CardID:     cardID,
		Rating:     int(rating),
		ReviewedAt: at,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Error("post-review handlers failed", slog.String("error", err.Error()))
	}
}
