// Package logging provides the process-wide structured logger. Every
// cmd/*/main.go builds one at startup and threads it through via context,
// matching the JSON-on-stdout convention the rest of the service stack uses.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type contextKey struct{}

// New builds a JSON slog.Logger writing to os.Stdout at the given level.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// WithContext attaches logger to ctx so downstream calls can retrieve it
// without threading an explicit parameter through every function.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger attached to ctx, or slog.Default() if none
// was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
