// Package constant holds header names and telemetry identifiers shared across
// packages.
package constant
