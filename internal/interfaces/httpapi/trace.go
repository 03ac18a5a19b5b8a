package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("weekly-digest/internal/interfaces/httpapi")

// passthroughSpan is returned for untraced requests so callers can defer End
// without a nil check.
var passthroughSpan = trace.SpanFromContext(context.Background())

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	// Routes excluded from tracing (healthz and friends) carry no parent
	// span; starting one here would emit orphan roots per handler call.
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, passthroughSpan
	}
	return apiTracer.Start(ctx, name)
}
