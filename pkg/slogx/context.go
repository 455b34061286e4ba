package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey struct{}

type attrsKey struct{}

// requestAttrs collects attributes added downstream of HTTPMiddleware so they
// also land on the final request log line.
type requestAttrs struct {
	mu   sync.Mutex
	args []any
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// With returns a context whose logger carries args. Inside HTTPMiddleware the
// args are also added to the request's access log entry.
func With(ctx context.Context, args ...any) context.Context {
	if ra, ok := ctx.Value(attrsKey{}).(*requestAttrs); ok {
		ra.mu.Lock()
		ra.args = append(ra.args, args...)
		ra.mu.Unlock()
	}
	return WithContext(ctx, FromContext(ctx).With(args...))
}
