package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
	pkgevents "github.com/reeljournal/reeljournal/pkg/events"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// ActivityHandler writes every journal event to the activity log.
type ActivityHandler struct {
	logger *zap.Logger
}

var _ interfaces.EventHandler = (*ActivityHandler)(nil)

// NewActivityHandler creates a new activity handler
func NewActivityHandler(logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		logger: logger.Named("activity"),
	}
}

// Handle logs the event with the fields relevant to its type.
func (h *ActivityHandler) Handle(ctx context.Context, event interfaces.Event) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("review_id", event.AggregateID()),
		zap.Int64("occurred_at", event.Timestamp()),
	}

	e, ok := event.(*pkgevents.Event)
	if !ok {
		h.logger.Debug("unhandled event type", fields...)
		return nil
	}

	switch e.Type {
	case domain.EventReviewCreated, domain.EventReviewUpdated, domain.EventReviewDeleted:
		fields = append(fields,
			zap.Any("slug", e.Data["slug"]),
			zap.Any("actor_id", e.Data["actor_id"]))
	case domain.EventRatingSubmitted:
		fields = append(fields,
			zap.Any("slug", e.Data["slug"]),
			zap.Any("rater_id", e.Data["rater_id"]),
			zap.Any("score", e.Data["score"]),
			zap.Any("average", e.Data["average"]),
			zap.Any("count", e.Data["count"]))
	default:
		h.logger.Debug("unhandled event type", fields...)
		return nil
	}

	h.logger.Info("journal activity", fields...)
	return nil
}

// EventType subscribes the handler to every event.
func (h *ActivityHandler) EventType() string {
	return pkgevents.AllEvents
}
