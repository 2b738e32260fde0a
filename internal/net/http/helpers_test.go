//go:build unit

package http

import (
	"context"
	"sync"
	"testing"

	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type logEntry struct {
	level  log.Level
	msg    string
	fields map[string]any
}

type logSink struct {
	mu      sync.Mutex
	entries []logEntry
}

// recordingLogger captures entries, including those of loggers derived with With.
type recordingLogger struct {
	log.NopLogger
	sink   *logSink
	fields []log.Field
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{sink: &logSink{}}
}

func (l *recordingLogger) Log(_ context.Context, level log.Level, msg string, fields ...log.Field) {
	m := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range append(append([]log.Field{}, l.fields...), fields...) {
		m[f.Key] = f.Value
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	l.sink.entries = append(l.sink.entries, logEntry{level: level, msg: msg, fields: m})
}

//nolint:ireturn
func (l *recordingLogger) With(fields ...log.Field) log.Logger {
	return &recordingLogger{sink: l.sink, fields: append(append([]log.Field{}, l.fields...), fields...)}
}

func (l *recordingLogger) Enabled(_ log.Level) bool { return true }

func (l *recordingLogger) entries() []logEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	return append([]logEntry(nil), l.sink.entries...)
}

type testTelemetry struct {
	tl       *opentelemetry.Telemetry
	spans    *tracetest.SpanRecorder
	reader   *sdkmetric.ManualReader
	provider *sdktrace.TracerProvider
}

func newTestTelemetry(t *testing.T) *testTelemetry {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		require.NoError(t, tp.Shutdown(context.Background()))
		require.NoError(t, mp.Shutdown(context.Background()))
	})

	return &testTelemetry{
		tl: &opentelemetry.Telemetry{
			TelemetryConfig: opentelemetry.TelemetryConfig{LibraryName: "test", Logger: log.NewNop()},
			TracerProvider:  tp,
			MeterProvider:   mp,
			Propagator:      propagation.TraceContext{},
		},
		spans:    spans,
		reader:   reader,
		provider: tp,
	}
}
