package opentelemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	constant "github.com/raqolbi/hello-api/internal/constants"
	"github.com/raqolbi/hello-api/internal/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

// defaultShutdownTimeout bounds ShutdownTelemetry so an unreachable collector
// cannot hold the process after the HTTP server has drained.
const defaultShutdownTimeout = 5 * time.Second

var (
	// ErrNilTelemetryLogger indicates that config.Logger is nil.
	ErrNilTelemetryLogger = errors.New("telemetry config logger cannot be nil")
	// ErrEmptyEndpoint indicates telemetry is enabled without a collector endpoint.
	ErrEmptyEndpoint = errors.New("collector exporter endpoint cannot be empty when telemetry is enabled")
	// ErrNilTelemetry is returned by methods called on a nil *Telemetry.
	ErrNilTelemetry = errors.New("telemetry is nil")
	// ErrNilShutdown is returned when a Telemetry carries no shutdown hook.
	ErrNilShutdown = errors.New("telemetry shutdown function is nil")
)

// TelemetryConfig describes the service resource and exporter settings.
type TelemetryConfig struct {
	LibraryName               string
	ServiceName               string
	ServiceVersion            string
	DeploymentEnv             string
	CollectorExporterEndpoint string
	EnableTelemetry           bool
	Logger                    log.Logger
}

// Telemetry owns the providers built by NewTelemetry.
type Telemetry struct {
	TelemetryConfig
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	Propagator     propagation.TextMapPropagator
	shutdown       func()
	shutdownCtx    func(context.Context) error
}

// NewTelemetry builds the providers described by cfg.
//
// With EnableTelemetry false the providers have no exporters: spans and
// metrics are produced and dropped, so instrumented code behaves the same in
// every environment.
func NewTelemetry(cfg TelemetryConfig) (*Telemetry, error) {
	if cfg.Logger == nil {
		return nil, ErrNilTelemetryLogger
	}

	propagator := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	if !cfg.EnableTelemetry {
		cfg.Logger.Log(context.Background(), log.LevelWarn, "Telemetry turned off")

		tp := sdktrace.NewTracerProvider()
		mp := sdkmetric.NewMeterProvider()
		lp := sdklog.NewLoggerProvider()

		shutdownCtx := func(ctx context.Context) error {
			return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx), lp.Shutdown(ctx))
		}

		return &Telemetry{
			TelemetryConfig: cfg,
			TracerProvider:  tp,
			MeterProvider:   mp,
			LoggerProvider:  lp,
			Propagator:      propagator,
			shutdown:        func() {},
			shutdownCtx:     shutdownCtx,
		}, nil
	}

	cfg.CollectorExporterEndpoint = strings.TrimSpace(cfg.CollectorExporterEndpoint)
	if cfg.CollectorExporterEndpoint == "" {
		return nil, ErrEmptyEndpoint
	}

	ctx := context.Background()
	l := cfg.Logger

	l.Log(ctx, log.LevelInfo, "Initializing telemetry", log.String("endpoint", cfg.CollectorExporterEndpoint))

	r := cfg.newResource()

	tExp, err := cfg.newTracerExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't initialize tracer exporter: %w", err)
	}

	mExp, err := cfg.newMetricExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't initialize metric exporter: %w", err)
	}

	lExp, err := cfg.newLoggerExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't initialize logger exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(tExp), sdktrace.WithResource(r))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(r), sdkmetric.WithReader(sdkmetric.NewPeriodicReader(mExp)))
	lp := sdklog.NewLoggerProvider(sdklog.WithResource(r), sdklog.WithProcessor(sdklog.NewBatchProcessor(lExp)))

	// Each provider shuts its own exporter down after the final flush.
	shutdownCtx := func(ctx context.Context) error {
		var errs []error

		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("can't shutdown metric provider: %w", err))
		}

		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("can't shutdown tracer provider: %w", err))
		}

		if err := lp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("can't shutdown logger provider: %w", err))
		}

		return errors.Join(errs...)
	}

	l.Log(ctx, log.LevelInfo, "Telemetry initialized")

	return &Telemetry{
		TelemetryConfig: cfg,
		TracerProvider:  tp,
		MeterProvider:   mp,
		LoggerProvider:  lp,
		Propagator:      propagator,
		shutdownCtx:     shutdownCtx,
	}, nil
}

func (tl *TelemetryConfig) newResource() *sdkresource.Resource {
	return sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(tl.ServiceName),
		semconv.ServiceVersion(tl.ServiceVersion),
		semconv.DeploymentEnvironmentName(tl.DeploymentEnv),
		semconv.TelemetrySDKName(constant.TelemetrySDKName),
		semconv.TelemetrySDKLanguageGo,
	)
}

func (tl *TelemetryConfig) newTracerExporter(ctx context.Context) (*otlptrace.Exporter, error) {
	return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(tl.CollectorExporterEndpoint), otlptracegrpc.WithInsecure())
}

func (tl *TelemetryConfig) newMetricExporter(ctx context.Context) (*otlpmetricgrpc.Exporter, error) {
	return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(tl.CollectorExporterEndpoint), otlpmetricgrpc.WithInsecure())
}

func (tl *TelemetryConfig) newLoggerExporter(ctx context.Context) (*otlploggrpc.Exporter, error) {
	return otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(tl.CollectorExporterEndpoint), otlploggrpc.WithInsecure())
}

// ApplyGlobals installs the providers and propagator as OpenTelemetry
// globals. The logger provider becomes the target of the otelzap bridge.
func (tl *Telemetry) ApplyGlobals() {
	if tl == nil {
		return
	}

	if tl.TracerProvider != nil {
		otel.SetTracerProvider(tl.TracerProvider)
	}

	if tl.MeterProvider != nil {
		otel.SetMeterProvider(tl.MeterProvider)
	}

	if tl.LoggerProvider != nil {
		global.SetLoggerProvider(tl.LoggerProvider)
	}

	if tl.Propagator != nil {
		otel.SetTextMapPropagator(tl.Propagator)
	}
}

// Tracer returns a tracer from the telemetry's own provider.
//
//nolint:ireturn
func (tl *Telemetry) Tracer(name string) (trace.Tracer, error) {
	if tl == nil || tl.TracerProvider == nil {
		return nil, ErrNilTelemetry
	}

	return tl.TracerProvider.Tracer(name), nil
}

// Meter returns a meter from the telemetry's own provider.
//
//nolint:ireturn
func (tl *Telemetry) Meter(name string) (metric.Meter, error) {
	if tl == nil || tl.MeterProvider == nil {
		return nil, ErrNilTelemetry
	}

	return tl.MeterProvider.Meter(name), nil
}

// ShutdownTelemetry flushes and stops every provider, logging failures.
func (tl *Telemetry) ShutdownTelemetry() {
	if tl == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := tl.ShutdownTelemetryWithContext(ctx); err != nil && tl.Logger != nil {
		tl.Logger.Log(ctx, log.LevelError, "telemetry shutdown failed", log.Err(err))
	}
}

// ShutdownTelemetryWithContext is ShutdownTelemetry bounded by ctx.
func (tl *Telemetry) ShutdownTelemetryWithContext(ctx context.Context) error {
	if tl == nil {
		return ErrNilTelemetry
	}

	if tl.shutdownCtx != nil {
		return tl.shutdownCtx(ctx)
	}

	if tl.shutdown != nil {
		tl.shutdown()
		return nil
	}

	return ErrNilShutdown
}

// HandleSpanError sets the status of the span to error and records the error.
func HandleSpanError(span trace.Span, message string, err error) {
	if span == nil || err == nil {
		return
	}

	span.SetStatus(codes.Error, message+": "+err.Error())
	span.RecordError(err)
}

// ExtractHTTPContext returns the request's user context enriched with any
// trace context carried in the incoming headers.
func ExtractHTTPContext(c *fiber.Ctx, propagator propagation.TextMapPropagator) context.Context {
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}

	carrier := propagation.HeaderCarrier{}

	c.Request().Header.VisitAll(func(key, value []byte) {
		carrier.Set(string(key), string(value))
	})

	return propagator.Extract(c.UserContext(), carrier)
}

// GetTraceIDFromContext returns the trace id of the active span, or "".
func GetTraceIDFromContext(ctx context.Context) string {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return ""
	}

	return spanContext.TraceID().String()
}
