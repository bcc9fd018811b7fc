package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// Publisher implements interfaces.EventPublisher on a Kafka topic. Messages
// are keyed by aggregate id so one review's events stay ordered.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducerConfig returns the sarama settings used for journal events.
func NewProducerConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Version = sarama.V2_8_0_0
	return cfg
}

// NewPublisher creates a new Kafka event publisher
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig(cfg.ClientID))
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return NewPublisherWithProducer(producer, cfg.Topic, logger), nil
}

// NewPublisherWithProducer wires an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.Named("kafka"),
	}
}

// Publish sends event synchronously.
func (p *Publisher) Publish(ctx context.Context, event interfaces.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.AggregateID()),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Unix(event.Timestamp(), 0),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType())},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", event.EventType()),
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.producer.Close()
}
