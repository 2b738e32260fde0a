// Package bootstrap loads the service configuration and wires telemetry,
// the HTTP router and the server manager into a runnable Service.
package bootstrap
