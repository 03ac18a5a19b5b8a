package observability

import (
	"errors"
	"math"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestIsHealthProbeAccessLog(t *testing.T) {
	if !isHealthProbeAccessLog("http request", []any{"path", "/healthz"}) {
		t.Fatal("expected the health probe log to be dropped")
	}
	if !isHealthProbeAccessLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatal("expected path to be found past other args")
	}
	if isHealthProbeAccessLog("http request", []any{"path", "/v1/digests/college"}) {
		t.Fatal("did not expect a digest request log to be dropped")
	}
	if isHealthProbeAccessLog("build hook request", []any{"path", "/healthz"}) {
		t.Fatal("did not expect a non-access-log event to be dropped")
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"scope", "college", "week", 14, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "scope" || attrs[0].Value.AsString() != "college" {
		t.Fatalf("unexpected scope attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "week" || attrs[1].Value.AsInt64() != 14 {
		t.Fatalf("unexpected week attribute: %+v", attrs[1])
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected trailing attribute: %+v", attrs[2])
	}
}

func TestLogAttributes_NonStringKeyRenamed(t *testing.T) {
	attrs := logAttributes([]any{42, "value"})
	if len(attrs) != 1 || attrs[0].Key != "arg_0" {
		t.Fatalf("expected arg_0 fallback key, got %+v", attrs)
	}
}

func TestLogSeverity(t *testing.T) {
	cases := map[zapcore.Level]otellog.Severity{
		zapcore.DebugLevel:  otellog.SeverityDebug,
		zapcore.InfoLevel:   otellog.SeverityInfo,
		zapcore.WarnLevel:   otellog.SeverityWarn,
		zapcore.ErrorLevel:  otellog.SeverityError,
		zapcore.DPanicLevel: otellog.SeverityFatal,
		zapcore.FatalLevel:  otellog.SeverityFatal,
	}

	for level, want := range cases {
		if got := logSeverity(level); got != want {
			t.Fatalf("logSeverity(%s)=%v want=%v", level, got, want)
		}
	}
}

func TestLogValue_MapKeysSorted(t *testing.T) {
	v := logValue(map[string]any{"ranked": true, "games": 58}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}

	items := v.AsMap()
	if len(items) != 2 || items[0].Key != "games" || items[1].Key != "ranked" {
		t.Fatalf("expected sorted map keys, got %+v", items)
	}
}

func TestLogValue_Scalars(t *testing.T) {
	if got := logValue(errors.New("boom"), 0); got.AsString() != "boom" {
		t.Fatalf("unexpected error value: %v", got)
	}
	if got := logValue(1500*time.Millisecond, 0); got.AsString() != "1.5s" {
		t.Fatalf("unexpected duration value: %v", got)
	}
	if got := logValue(uint64(math.MaxInt64)+1, 0); got.Kind() != otellog.KindString {
		t.Fatalf("expected oversized uint to stringify, got %s", got.Kind())
	}
	week := 14
	if got := logValue(&week, 0); got.AsInt64() != 14 {
		t.Fatalf("expected pointer deref, got %v", got)
	}
}

func TestLogValue_DepthCapStringifies(t *testing.T) {
	nested := map[string]any{"l1": map[string]any{"l2": map[string]any{"l3": map[string]any{"l4": 1}}}}
	v := logValue(nested, 0)

	for _, key := range []string{"l1", "l2", "l3"} {
		kvs := v.AsMap()
		if len(kvs) != 1 || kvs[0].Key != key {
			t.Fatalf("expected single %q entry, got %+v", key, kvs)
		}
		v = kvs[0].Value
	}
	if v.Kind() != otellog.KindString {
		t.Fatalf("expected depth-capped value to be a string, got %s", v.Kind())
	}
}
