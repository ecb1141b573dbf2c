package vnbgeo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vnbgeo-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithResource adds a resource field to the logger.
func (l *Logger) WithResource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("resource", name),
	}
}

// WithRecord adds a record id field to the logger.
func (l *Logger) WithRecord(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("record", id),
	}
}

// WithLayer adds a layer field to the logger.
func (l *Logger) WithLayer(layer string) *Logger {
	return &Logger{
		Logger: l.Logger.With("layer", layer),
	}
}

// LogIndexLoad logs the one-time index load.
func (l *Logger) LogIndexLoad(ctx context.Context, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index unavailable, continuing without polygons",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "browser ready",
			"records", records,
		)
	}
}

// LogBatchLoad logs a geometry batch load.
func (l *Logger) LogBatchLoad(ctx context.Context, total, failed int, err error) {
	switch {
	case err != nil:
		l.DebugContext(ctx, "geometry load stopped",
			"total", total,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "geometry load completed with failures",
			"total", total,
			"failed", failed,
			"success", total-failed,
		)
	default:
		l.InfoContext(ctx, "geometry load completed",
			"count", total,
		)
	}
}

// LogSearch logs a fuzzy search.
func (l *Logger) LogSearch(ctx context.Context, query string, results int) {
	l.DebugContext(ctx, "search completed",
		"query", query,
		"results", results,
	)
}

// LogSelect logs a record selection.
func (l *Logger) LogSelect(ctx context.Context, id string, err error) {
	if err != nil {
		l.WarnContext(ctx, "select failed",
			"record", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "record selected",
			"record", id,
		)
	}
}
