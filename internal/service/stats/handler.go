package stats

import (
	"context"
	"fmt"

	"github.com/phrazzld/lingo-srs/internal/events"
)

// NewReviewCommittedHandler refreshes a learner's aggregates whenever one of
// their reviews is committed. Other event types are ignored.
func NewReviewCommittedHandler(svc Service) events.EventHandler {
	if svc == nil {
		panic("stats service cannot be nil")
	}

	return events.EventHandlerFunc(func(ctx context.Context, event *events.Event) error {
		if event == nil || event.Type != events.EventTypeReviewCommitted {
			return nil
		}

		var payload events.ReviewCommitted
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}

		_, err := svc.RefreshStats(ctx, payload.LearnerID)
		return err
	})
}
