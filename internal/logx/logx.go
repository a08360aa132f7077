// Package logx builds the structured loggers used across the
// simulator. Engine events (trade executed, order rejected, run
// aborted) all flow through slog handlers created here.
package logx

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a structured logger writing to w at the given level.
// Supported levels: "debug", "info", "warn", "error"; anything else
// falls back to "info". Format "json" selects the JSON handler, any
// other value the text handler.
func New(w io.Writer, level, format string) *slog.Logger {
	var slevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slevel = slog.LevelDebug
	case "info":
		slevel = slog.LevelInfo
	case "warn":
		slevel = slog.LevelWarn
	case "error":
		slevel = slog.LevelError
	default:
		slevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: slevel}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything. Handy default for
// library callers that did not wire observability.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
