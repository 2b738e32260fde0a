// Package http holds the fiber handlers, response helpers and middleware of
// the public HTTP surface.
//
// Every body is JSON. Errors, including router 404s, are rendered through
// FiberErrorHandler so they share the ErrorResponse shape.
package http
