package logger

import (
	"context"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// NoopLogger discards everything. Used by tests.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger.
func NewNoopLogger() interfaces.Logger {
	return &NoopLogger{}
}

func (n *NoopLogger) Debug(msg string, fields ...interfaces.Field) {}

func (n *NoopLogger) Info(msg string, fields ...interfaces.Field) {}

func (n *NoopLogger) Warn(msg string, fields ...interfaces.Field) {}

func (n *NoopLogger) Error(msg string, fields ...interfaces.Field) {}

// Fatal does nothing (doesn't exit).
func (n *NoopLogger) Fatal(msg string, fields ...interfaces.Field) {}

func (n *NoopLogger) WithContext(ctx context.Context) interfaces.Logger {
	return n
}

func (n *NoopLogger) WithFields(fields ...interfaces.Field) interfaces.Logger {
	return n
}
