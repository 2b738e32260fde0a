package runtime

import (
	"context"
	"fmt"

	constant "github.com/raqolbi/hello-api/internal/constants"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicSpanEventName is the span event name used for recovered panics.
const PanicSpanEventName = constant.EventPanicRecovered

// maxStackAttributeLen keeps span attributes within collector limits.
const maxStackAttributeLen = 4096

// RecordPanicToSpan marks the span in ctx as failed and attaches the panic
// as a span event. It is a no-op when ctx carries no recording span.
func RecordPanicToSpan(ctx context.Context, panicValue any, stack []byte, goroutineName string) {
	recordPanicToSpan(ctx, panicValue, stack, "", goroutineName)
}

// RecordPanicToSpanWithComponent is RecordPanicToSpan with a component prefix
// in the status message.
func RecordPanicToSpanWithComponent(ctx context.Context, panicValue any, stack []byte, component, goroutineName string) {
	recordPanicToSpan(ctx, panicValue, stack, component, goroutineName)
}

func recordPanicToSpan(ctx context.Context, panicValue any, stack []byte, component, goroutineName string) {
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	stackStr := string(stack)
	if len(stackStr) > maxStackAttributeLen {
		stackStr = stackStr[:maxStackAttributeLen] + "\n...[truncated]"
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixPanic+"value", fmt.Sprintf("%v", panicValue)),
		attribute.String(constant.AttrPrefixPanic+"stack", stackStr),
		attribute.String(constant.AttrPrefixPanic+"goroutine_name", goroutineName),
	}

	location := goroutineName
	if component != "" {
		attrs = append(attrs, attribute.String(constant.AttrPrefixPanic+"component", component))
		location = component + "/" + goroutineName
	}

	span.AddEvent(PanicSpanEventName, trace.WithAttributes(attrs...))
	span.RecordError(fmt.Errorf("%w: %v", ErrPanic, panicValue))
	span.SetStatus(codes.Error, "panic recovered in "+location)
}
