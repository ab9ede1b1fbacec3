package zerorec

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with record-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path)}
}

// WithName adds a record name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{Logger: l.Logger.With("name", name)}
}

// WithLayout adds the layout dimensions to the logger.
func (l *Logger) WithLayout(layout Layout) *Logger {
	return &Logger{Logger: l.Logger.With("fixed_size", layout.FixedSize, "slot_count", layout.SlotCount)}
}

// LogOpen logs opening a record file.
func (l *Logger) LogOpen(ctx context.Context, path string, size int, mapped bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "open completed",
		"path", path,
		"size", size,
		"mapped", mapped,
	)
}

// LogMapFallback logs a failed mapping that fell back to a heap read.
func (l *Logger) LogMapFallback(ctx context.Context, path string, err error) {
	l.WarnContext(ctx, "mmap unavailable, reading file into memory",
		"path", path,
		"error", err,
	)
}

// LogPut logs storing a record.
func (l *Logger) LogPut(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "put failed",
			"name", name,
			"size", size,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "put completed",
		"name", name,
		"size", size,
	)
}

// LogGet logs loading a stored record.
func (l *Logger) LogGet(ctx context.Context, name string, size int, zeroCopy bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "get completed",
		"name", name,
		"size", size,
		"zero_copy", zeroCopy,
	)
}

// LogDelete logs removing a stored record.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "delete completed",
		"name", name,
	)
}

// LogScan logs a parallel batch scan.
func (l *Logger) LogScan(ctx context.Context, records, workers int, err error) {
	if err != nil {
		l.WarnContext(ctx, "scan stopped",
			"records", records,
			"workers", workers,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "scan completed",
		"records", records,
		"workers", workers,
	)
}
