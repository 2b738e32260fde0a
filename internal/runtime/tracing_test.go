//go:build unit

package runtime

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestRecordPanicToSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		panicValue    any
		stack         []byte
		component     string
		goroutineName string
		wantMessage   string
	}{
		{"string value", "boom", []byte("stack"), "", "handler", "panic recovered in handler"},
		{"integer value", 42, nil, "", "processor", "panic recovered in processor"},
		{"nil value", nil, []byte("stack"), "", "main", "panic recovered in main"},
		{"with component", "boom", []byte("stack"), "server", "serve", "panic recovered in server/serve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, recorder := newTestTracerProvider(t)
			ctx, span := provider.Tracer("test").Start(context.Background(), "test-span")

			RecordPanicToSpanWithComponent(ctx, tt.panicValue, tt.stack, tt.component, tt.goroutineName)
			span.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)

			var attrs map[string]string

			for _, event := range spans[0].Events() {
				if event.Name == PanicSpanEventName {
					attrs = make(map[string]string)
					for _, attr := range event.Attributes {
						attrs[string(attr.Key)] = attr.Value.AsString()
					}
				}
			}

			require.NotNil(t, attrs, "panic.recovered event not found")
			assert.Equal(t, tt.goroutineName, attrs["panic.goroutine_name"])
			assert.Contains(t, attrs, "panic.value")
			assert.Contains(t, attrs, "panic.stack")

			if tt.component == "" {
				assert.NotContains(t, attrs, "panic.component")
			} else {
				assert.Equal(t, tt.component, attrs["panic.component"])
			}

			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, tt.wantMessage, spans[0].Status().Description)
		})
	}
}

func TestRecordPanicToSpanTruncatesStack(t *testing.T) {
	t.Parallel()

	provider, recorder := newTestTracerProvider(t)
	ctx, span := provider.Tracer("test").Start(context.Background(), "test-span")

	RecordPanicToSpan(ctx, "boom", []byte(strings.Repeat("x", maxStackAttributeLen*2)), "worker")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.NotEmpty(t, spans[0].Events())

	for _, attr := range spans[0].Events()[0].Attributes {
		if attr.Key == "panic.stack" {
			assert.True(t, strings.HasSuffix(attr.Value.AsString(), "...[truncated]"))
			assert.Less(t, len(attr.Value.AsString()), maxStackAttributeLen*2)
		}
	}
}

func TestRecordPanicToSpanWithoutSpan(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		RecordPanicToSpan(context.Background(), "boom", nil, "worker")
		//nolint:staticcheck
		RecordPanicToSpan(nil, "boom", nil, "worker")
	})
}
