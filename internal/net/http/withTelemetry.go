package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	constant "github.com/raqolbi/hello-api/internal/constants"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryMiddleware opens a server span per request and records the
// request counter and duration histogram.
type TelemetryMiddleware struct {
	Telemetry *opentelemetry.Telemetry
	tracer    trace.Tracer
	requests  metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewTelemetryMiddleware creates the instruments once for the app's lifetime.
func NewTelemetryMiddleware(tl *opentelemetry.Telemetry) (*TelemetryMiddleware, error) {
	if tl == nil {
		return nil, opentelemetry.ErrNilTelemetry
	}

	tracer, err := tl.Tracer(tl.LibraryName)
	if err != nil {
		return nil, fmt.Errorf("telemetry tracer: %w", err)
	}

	meter, err := tl.Meter(tl.LibraryName)
	if err != nil {
		return nil, fmt.Errorf("telemetry meter: %w", err)
	}

	requests, err := meter.Int64Counter(constant.MetricHTTPRequestsTotal,
		metric.WithDescription("Total number of HTTP requests served"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram(constant.MetricHTTPRequestDuration,
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &TelemetryMiddleware{
		Telemetry: tl,
		tracer:    tracer,
		requests:  requests,
		duration:  duration,
	}, nil
}

// WithTelemetry is the fiber handler of the middleware.
func (tm *TelemetryMiddleware) WithTelemetry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		traceCtx := opentelemetry.ExtractHTTPContext(c, tm.Telemetry.Propagator)

		// Renamed to the matched route once it is known.
		ctx, span := tm.tracer.Start(traceCtx, c.Method(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.url", c.OriginalURL()),
			attribute.String("http.scheme", c.Protocol()),
			attribute.String("http.host", c.Hostname()),
			attribute.String("http.user_agent", c.Get(constant.HeaderUserAgent)),
			attribute.String("app.request.request_id", c.Get(constant.HeaderID)),
		)

		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path

		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		tm.requests.Add(ctx, 1, attrs)
		tm.duration.Record(ctx, time.Since(start).Seconds(), attrs)

		return err
	}
}
