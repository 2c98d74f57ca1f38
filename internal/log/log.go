// Package log builds slog loggers backed by charmbracelet/log.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// NewHandler returns a handler writing to w with the given prefix and level.
func NewHandler(w io.Writer, name string, level slog.Level) slog.Handler {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
		Level:           log.Level(level),
	})
}

// New returns a logger writing to stderr.
func New(name string, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, name, level))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, "", slog.LevelError))
}

type ctxKey struct{}

// IntoContext adds a logger to a context. Use FromContext to
// pull the logger out.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the default slog logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// SubLogger derives a logger whose prefix is the base prefix plus suffix.
func SubLogger(base *slog.Logger, suffix string) *slog.Logger {
	if cl, ok := base.Handler().(*log.Logger); ok {
		prefix := cl.GetPrefix()
		if prefix != "" {
			prefix = prefix + "/" + suffix
		} else {
			prefix = suffix
		}
		return slog.New(cl.WithPrefix(prefix))
	}
	return base.With("component", suffix)
}
