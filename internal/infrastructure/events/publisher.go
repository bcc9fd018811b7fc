// Package events selects the transport journal events are published on.
package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reeljournal/reeljournal/internal/infrastructure/events/kafka"
	"github.com/reeljournal/reeljournal/internal/infrastructure/events/nats"
	"github.com/reeljournal/reeljournal/pkg/config"
	pkgevents "github.com/reeljournal/reeljournal/pkg/events"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// NewPublisher returns the publisher for cfg.Driver. Broker drivers also
// deliver to the in-process bus so local subscribers keep working.
func NewPublisher(
	ctx context.Context,
	cfg config.EventsConfig,
	serviceName string,
	bus *pkgevents.InMemoryEventBus,
	logger *zap.Logger,
) (interfaces.EventPublisher, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case config.EventsNone:
		return pkgevents.Discard{}, noop, nil

	case config.EventsLocal, "":
		return bus, noop, nil

	case config.EventsNATS:
		client, cleanup, err := nats.NewClient(ctx, cfg.NATS, serviceName, logger)
		if err != nil {
			return nil, nil, err
		}
		publisher := nats.NewPublisher(client.JetStream(), cfg.NATS.SubjectPrefix, logger)
		return pkgevents.Fanout{bus, publisher}, cleanup, nil

	case config.EventsKafka:
		publisher, err := kafka.NewPublisher(cfg.Kafka, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := publisher.Close(); err != nil {
				logger.Error("failed to close kafka producer", zap.Error(err))
			}
		}
		return pkgevents.Fanout{bus, publisher}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
