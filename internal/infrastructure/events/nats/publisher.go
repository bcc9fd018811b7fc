package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

const publishTimeout = 5 * time.Second

// StreamPublisher is the part of JetStream the publisher needs.
type StreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher implements interfaces.EventPublisher using NATS JetStream
type Publisher struct {
	js            StreamPublisher
	subjectPrefix string
	logger        *zap.Logger
}

// NewPublisher creates a new NATS event publisher
func NewPublisher(js StreamPublisher, subjectPrefix string, logger *zap.Logger) *Publisher {
	return &Publisher{
		js:            js,
		subjectPrefix: subjectPrefix,
		logger:        logger.Named("publisher"),
	}
}

// Publish sends event to <prefix>.<event type>. Events carrying an id are
// de-duplicated by JetStream.
func (p *Publisher) Publish(ctx context.Context, event interfaces.Event) error {
	subject := Subject(p.subjectPrefix, event.EventType())

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var opts []jetstream.PublishOpt
	if ider, ok := event.(interface{ EventID() string }); ok && ider.EventID() != "" {
		opts = append(opts, jetstream.WithMsgID(ider.EventID()))
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ack, err := p.js.Publish(pubCtx, subject, data, opts...)
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", event.EventType()),
			zap.String("subject", subject))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.String("subject", subject),
		zap.Uint64("sequence", ack.Sequence),
		zap.String("stream", ack.Stream))

	return nil
}

// Subject maps an event type such as "review.created" below prefix.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}
