// Package logging builds the structured logger the weblog command writes its
// diagnostics with.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Field names used across the command's log output.
const (
	FieldSource   = "source"
	FieldEncoding = "encoding"
	FieldOutput   = "output"
	FieldError    = "error"
)

// New creates a logger writing to w at the given level. format can be "json"
// or "text" (the default).
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn", "error".
// Returns slog.LevelInfo for invalid values.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Source returns a slog attribute for the input source.
func Source(name string) slog.Attr {
	return slog.String(FieldSource, name)
}

// Encoding returns a slog attribute for the input text encoding.
func Encoding(name string) slog.Attr {
	return slog.String(FieldEncoding, name)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.Any(FieldError, err)
}
