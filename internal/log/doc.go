// Package log defines the logging interface and typed logging fields.
//
// Adapters (such as the zap package) implement Logger so the rest of the
// service never depends on a concrete backend.
package log
