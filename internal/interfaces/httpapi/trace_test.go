package httpapi

import (
	"context"
	"testing"
)

func TestStartSpan_NoParentPassesContextThrough(t *testing.T) {
	ctx := context.Background()

	gotCtx, span := startSpan(ctx, "httpapi.Handler.GetLatestDigest")
	if gotCtx != ctx {
		t.Fatal("expected the caller's context back untouched")
	}
	if span.SpanContext().IsValid() {
		t.Fatal("expected a non-recording span without a parent")
	}
}
