package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithContext stores log in ctx for handlers further down the chain.
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// With adds attrs to the logger carried by ctx.
func With(ctx context.Context, attrs ...slog.Attr) context.Context {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// FromContext returns the request logger, tagged with the active trace id
// when ctx carries a sampled span.
func FromContext(ctx context.Context) *slog.Logger {
	log, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || log == nil {
		log = slog.Default()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return log.With(TraceID(sc.TraceID().String()))
	}
	return log
}
