package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a request-scoped logger in the context.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger, or a no-op logger outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// With attaches fields to the request logger and stores the result back in ctx,
// so everything called with the returned context logs them too. Outside a
// request the fields go on fallback instead.
func With(ctx context.Context, fallback *zap.Logger, fields ...zap.Field) (context.Context, *zap.Logger) {
	base, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	if !ok {
		base = fallback
	}
	if base == nil {
		base = zap.NewNop()
	}
	l := base.With(fields...)
	return ContextWithLogger(ctx, l), l
}
