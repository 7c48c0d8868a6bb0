package filedict

import "log/slog"

type options struct {
	logger *Logger
}

// Option configures a Catalog.
type Option func(*options)

// WithLogger sets the logger a Catalog reports failed steps to.
// Defaults to NoopLogger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel replaces the logger with a text logger to stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func defaultOptions() options {
	return options{
		logger: NoopLogger(),
	}
}
