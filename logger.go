package minibatch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/minibatch/featurestore"
)

// Logger wraps slog.Logger with minibatch-specific context.
// This provides structured logging with consistent field names.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithKey adds a feature key field to the logger.
func (l *Logger) WithKey(key featurestore.Key) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key.String()),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogLoad logs the construction of a feature store.
func (l *Logger) LogLoad(ctx context.Context, features int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "feature store load failed",
			"features", features,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "feature store loaded",
			"features", features,
			"duration", duration,
		)
	}
}

// LogFeatureRead logs a feature read.
func (l *Logger) LogFeatureRead(ctx context.Context, key featurestore.Key, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "feature read failed",
			"key", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "feature read completed",
			"key", key.String(),
			"rows", rows,
		)
	}
}

// LogFeatureUpdate logs a feature update.
func (l *Logger) LogFeatureUpdate(ctx context.Context, key featurestore.Key, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "feature update failed",
			"key", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "feature update completed",
			"key", key.String(),
			"rows", rows,
		)
	}
}

// LogCompaction logs a compaction. ids is the number of input ids.
func (l *Logger) LogCompaction(ctx context.Context, op CompactionOp, ids int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compaction failed",
			"op", string(op),
			"ids", ids,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compaction completed",
			"op", string(op),
			"ids", ids,
		)
	}
}

// LogClose logs the release of an engine's features.
func (l *Logger) LogClose(ctx context.Context, features int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"features", features,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "engine closed",
			"features", features,
		)
	}
}
