package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("weekly-digest/internal/usecase")

// inertSpan is handed out when tracing is off for a call; it can be Ended
// freely and records nothing.
var inertSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan opens a child span only under a live request span. Batch
// and test invocations carry no parent, so they get the caller's context
// back untouched.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, inertSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, inertSpan
	}
	return usecaseTracer.Start(ctx, name)
}
