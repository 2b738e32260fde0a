// Package zap provides the zap-backed implementation of log.Logger.
//
// Logs are JSON on stdout and are also bridged to the OpenTelemetry log
// pipeline through otelzap, so enabling telemetry exports them without any
// change at call sites.
package zap
