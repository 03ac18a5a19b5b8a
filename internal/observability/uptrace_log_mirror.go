package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"

	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

const (
	uptraceLogInstrumentation = "weekly-digest/internal/platform/logging"
	healthPath                = "/healthz"

	// Nested values are flattened to strings past this depth to keep a
	// single record from ballooning.
	maxLogValueDepth = 3
)

// newUptraceLogMirror adapts the process log mirror to the OTLP log bridge.
// Every zap entry that passes the level check is re-emitted as an otel log
// record under the active trace.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	bridge := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isHealthProbeAccessLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := logSeverity(level)
		if !bridge.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}
		bridge.Emit(ctx, buildLogRecord(severity, level, msg, args))
	}
}

func buildLogRecord(severity otellog.Severity, level logging.Level, msg string, args []any) otellog.Record {
	var record otellog.Record
	record.SetBody(otellog.StringValue(msg))
	record.SetEventName(msg)
	record.SetSeverity(severity)
	record.SetSeverityText(strings.ToUpper(level.String()))

	now := time.Now().UTC()
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)

	if attrs := logAttributes(args); len(attrs) > 0 {
		record.AddAttributes(attrs...)
	}
	return record
}

// isHealthProbeAccessLog matches the request log for /healthz. Probes fire
// every few seconds and would dominate the shipped stream.
func isHealthProbeAccessLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	path, ok := stringArg(args, "path")
	return ok && path == healthPath
}

// stringArg scans slog-style key/value args for key and returns its value
// when it is a string.
func stringArg(args []any, key string) (string, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok || k != key {
			continue
		}
		v, ok := args[i+1].(string)
		return v, ok
	}
	return "", false
}

func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[i+1], 0)})
	}
	return attrs
}

func logSeverity(level logging.Level) otellog.Severity {
	switch {
	case level <= logging.LevelDebug:
		return otellog.SeverityDebug
	case level == logging.LevelInfo:
		return otellog.SeverityInfo
	case level == logging.LevelWarn:
		return otellog.SeverityWarn
	case level == logging.LevelError:
		return otellog.SeverityError
	default:
		return otellog.SeverityFatal
	}
}

func logValue(value any, depth int) otellog.Value {
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	return reflectedLogValue(reflect.ValueOf(value), depth)
}

// unsignedLogValue keeps unsigned ints inside int64 range; anything larger
// becomes a string to avoid silent wraparound.
func unsignedLogValue(v uint64) otellog.Value {
	if v > math.MaxInt64 {
		return otellog.StringValue(fmt.Sprint(v))
	}
	return otellog.Int64Value(int64(v))
}

// reflectedLogValue handles everything the type switch does not name,
// including named scalar types, which keep their numeric representation.
func reflectedLogValue(rv reflect.Value, depth int) otellog.Value {
	switch rv.Kind() {
	case reflect.String:
		return otellog.StringValue(rv.String())
	case reflect.Bool:
		return otellog.BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedLogValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return logValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		return sequenceLogValue(rv, depth)
	case reflect.Map:
		return mapLogValue(rv, depth)
	default:
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}
}

func sequenceLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return otellog.BytesValue(append([]byte(nil), rv.Bytes()...))
	}

	items := make([]otellog.Value, rv.Len())
	for i := range items {
		items[i] = logValue(rv.Index(i).Interface(), depth+1)
	}
	return otellog.SliceValue(items...)
}

// mapLogValue renders string-keyed maps with sorted keys so repeated log
// lines stay diffable; other key types fall back to fmt.
func mapLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Type().Key().Kind() != reflect.String {
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}

	kvs := make([]otellog.KeyValue, 0, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		kvs = append(kvs, otellog.KeyValue{
			Key:   iter.Key().String(),
			Value: logValue(iter.Value().Interface(), depth+1),
		})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return otellog.MapValue(kvs...)
}
