// Package logger provides centralized slog.Logger construction with
// configurable level and output format, plus per-subsystem scoping so
// pipeline, sweep, and API log lines are distinguishable in one stream.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a *slog.Logger configured with the given level and format.
// Level: "debug", "info", "warn", "error" (default: "info").
// Format: "json" or "text" (default: "text").
// Output goes to stderr.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a *slog.Logger writing to w.
// Useful for testing or redirecting output.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Component returns a child logger tagged with the subsystem name, so
// lines from the generation pipeline, sweeper, and HTTP layer can be
// told apart when they share one output stream.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}

// ParseLevel converts a level string to slog.Level. Recognized values:
// "debug", "warn" (or "warning"), "error". Everything else returns
// LevelInfo.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
