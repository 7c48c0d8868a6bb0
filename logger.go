package filedict

import (
	"io"
	"log/slog"
	"os"

	"github.com/gostonefire/filedict/dictionary"
)

// Logger wraps slog.Logger with filedict specific context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LogStep logs the outcome of one step of a catalog operation.
// Failures are logged at error level, successes at debug level.
func (l *Logger) LogStep(op, step string, id dictionary.ID, err error) {
	if err != nil {
		l.Error(op+" failed",
			"step", step,
			"dictionary", id,
			"error", err,
		)
	} else {
		l.Debug(op+" completed",
			"step", step,
			"dictionary", id,
		)
	}
}
