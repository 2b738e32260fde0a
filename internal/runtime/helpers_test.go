//go:build unit

package runtime

import (
	"context"
	"sync"
	"testing"

	"github.com/raqolbi/hello-api/internal/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testLogger struct {
	log.NopLogger
	mu      sync.Mutex
	entries []testEntry
}

type testEntry struct {
	level  log.Level
	msg    string
	fields map[string]any
}

func newTestLogger() *testLogger {
	return &testLogger{}
}

func (l *testLogger) Log(_ context.Context, level log.Level, msg string, fields ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}

	l.entries = append(l.entries, testEntry{level: level, msg: msg, fields: m})
}

func (l *testLogger) snapshot() []testEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]testEntry(nil), l.entries...)
}

func newTestTracerProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	return provider, recorder
}
