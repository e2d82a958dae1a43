package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// New returns a logger configured with a text handler writing to STDOUT.
func New() *slog.Logger {
	return NewWith(os.Stdout, "text", slog.LevelInfo)
}

// NewWith builds a logger for the given writer, format ("text" or "json"),
// and level. Unknown formats fall back to text.
func NewWith(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type ctxKey struct{}

// NewContext returns a copy of ctx with the logger stored.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves a logger from ctx or returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
