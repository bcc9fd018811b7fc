package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the concrete event type carried by every publisher.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	AggID      string                 `json:"aggregate_id"`
	Data       map[string]interface{} `json:"data"`
}

// NewAggregateEvent creates an event about the aggregate with the given id.
func NewAggregateEvent(eventType string, aggregateID string, data map[string]interface{}) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		AggID:      aggregateID,
		Data:       data,
	}
}

// EventType returns the type of the event
func (e *Event) EventType() string {
	return e.Type
}

// Timestamp returns when the event occurred, in unix seconds
func (e *Event) Timestamp() int64 {
	return e.OccurredAt.Unix()
}

// AggregateID returns the ID of the aggregate that produced the event
func (e *Event) AggregateID() string {
	return e.AggID
}

// EventID returns the unique id used for broker-side de-duplication
func (e *Event) EventID() string {
	return e.ID
}
