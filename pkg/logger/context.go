package logger

import (
	"context"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	actorKey
)

// FromContext returns the request logger stored by GinMiddleware, or a
// no-op logger outside a request.
func FromContext(ctx context.Context) interfaces.Logger {
	if logger, ok := ctx.Value(loggerKey).(interfaces.Logger); ok {
		return logger
	}
	return NewNoopLogger()
}

func WithContext(ctx context.Context, logger interfaces.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithActor records the identity acting in this request so log lines
// written through WithContext name it.
func WithActor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorKey, id)
}

func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorKey).(string)
	return id
}
