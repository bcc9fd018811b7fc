package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/reeljournal/reeljournal/internal/infrastructure/events"
	"github.com/reeljournal/reeljournal/pkg/config"
	pkgevents "github.com/reeljournal/reeljournal/pkg/events"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

func TestNewPublisher_InProcessDrivers(t *testing.T) {
	bus := pkgevents.NewInMemoryEventBus(logger.NewNoopLogger())

	local, cleanup, err := events.NewPublisher(context.Background(), config.EventsConfig{Driver: config.EventsLocal}, "journal", bus, zaptest.NewLogger(t))
	require.NoError(t, err)
	cleanup()
	assert.Same(t, bus, local)

	none, cleanup, err := events.NewPublisher(context.Background(), config.EventsConfig{Driver: config.EventsNone}, "journal", bus, zaptest.NewLogger(t))
	require.NoError(t, err)
	cleanup()
	assert.IsType(t, pkgevents.Discard{}, none)
}

func TestNewPublisher_UnknownDriver(t *testing.T) {
	bus := pkgevents.NewInMemoryEventBus(logger.NewNoopLogger())

	_, _, err := events.NewPublisher(context.Background(), config.EventsConfig{Driver: "carrier-pigeon"}, "journal", bus, zaptest.NewLogger(t))

	assert.Error(t, err)
}
