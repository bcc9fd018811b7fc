package events

import (
	"context"
	"sync"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

// InMemoryEventBus delivers events to in-process handlers.
type InMemoryEventBus struct {
	handlers map[string][]interfaces.EventHandler
	mu       sync.RWMutex
	logger   interfaces.Logger
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

var _ interfaces.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger interfaces.Logger) *InMemoryEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &InMemoryEventBus{
		handlers: make(map[string][]interfaces.EventHandler),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish runs every handler subscribed to the event's type, then the
// wildcard handlers. Handler failures are logged and do not stop delivery.
func (eb *InMemoryEventBus) Publish(ctx context.Context, event interfaces.Event) error {
	eb.mu.RLock()
	handlers := make([]interfaces.EventHandler, 0, len(eb.handlers[event.EventType()])+len(eb.handlers[AllEvents]))
	handlers = append(handlers, eb.handlers[event.EventType()]...)
	handlers = append(handlers, eb.handlers[AllEvents]...)
	eb.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			eb.logger.Error("Event handler failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.String("handler", handler.EventType()),
				interfaces.Error(err))
		}
	}

	return nil
}

// PublishAsync publishes on a separate goroutine. Events published after
// Stop are dropped.
func (eb *InMemoryEventBus) PublishAsync(ctx context.Context, event interfaces.Event) {
	if eb.ctx.Err() != nil {
		eb.logger.Warn("Event bus stopped, dropping event",
			interfaces.String("event_type", event.EventType()))
		return
	}

	eb.wg.Add(1)
	go func() {
		defer eb.wg.Done()
		if err := eb.Publish(context.WithoutCancel(ctx), event); err != nil {
			eb.logger.Error("Async event publish failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.Error(err))
		}
	}()
}

// Subscribe registers a handler for a specific event type, or AllEvents.
func (eb *InMemoryEventBus) Subscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("Event handler subscribed",
		interfaces.String("event_type", eventType),
		interfaces.String("handler", handler.EventType()))

	return nil
}

// Unsubscribe removes a handler for a specific event type
func (eb *InMemoryEventBus) Unsubscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			eb.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}

	return nil
}

// Start starts the event bus
func (eb *InMemoryEventBus) Start(ctx context.Context) error {
	eb.logger.Info("Event bus started")
	return nil
}

// Stop waits for in-flight async deliveries.
func (eb *InMemoryEventBus) Stop() error {
	eb.cancel()
	eb.wg.Wait()
	eb.logger.Info("Event bus stopped")
	return nil
}

// Discard is a publisher that drops every event.
type Discard struct{}

// Publish does nothing.
func (Discard) Publish(context.Context, interfaces.Event) error { return nil }
