// Package logging defines a minimal structured-logging interface used across
// the project, with zerolog and slog backed implementations.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Debug logs diagnostic detail that is off in normal operation.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New builds the logger for the given format. "text" produces slog's
// key=value lines; anything else produces zerolog JSON. Both write Info and
// above.
func New(format string, w io.Writer) Logger {
	if strings.EqualFold(format, FormatText) {
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
	}
	return NewZerologLogger(zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger())
}
