package interfaces

import "context"

// Logger is the structured logger every journal component receives.
// Implementations live in pkg/logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// Fatal logs and exits the process.
	Fatal(msg string, fields ...Field)

	// WithContext returns a logger carrying the request id and actor found in ctx.
	WithContext(ctx context.Context) Logger
	WithFields(fields ...Field) Logger
}

// Field is one key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Error attaches err under the "error" key.
func Error(err error) Field { return Field{Key: "error", Value: err} }

func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }
