// Package opentelemetry builds the trace, metric and log providers for the
// service.
//
// NewTelemetry runs in disabled mode unless telemetry is switched on, in which
// case OTLP gRPC exporters ship spans, metrics and bridged zap logs to the
// configured collector.
package opentelemetry
