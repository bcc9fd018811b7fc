package interfaces

import (
	"context"
)

// Event represents a journal event emitted after a successful write.
type Event interface {
	// EventType returns the type of the event, e.g. "review.created"
	EventType() string

	// Timestamp returns when the event occurred (unix seconds)
	Timestamp() int64

	// AggregateID returns the ID of the review the event is about
	AggregateID() string
}

// EventHandler handles events of a specific type.
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event Event) error

	// EventType returns the type of events this handler processes
	EventType() string
}

// EventPublisher sends events to a transport (in-process bus, NATS, Kafka).
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBus provides in-process pub/sub for journal events.
type EventBus interface {
	EventPublisher

	// PublishAsync publishes an event without waiting for handlers
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a handler for a specific event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler for a specific event type
	Unsubscribe(eventType string, handler EventHandler) error

	// Start starts the event bus
	Start(ctx context.Context) error

	// Stop stops the event bus
	Stop() error
}
