// Package commons holds cross-cutting helpers shared by the service packages:
// environment-driven configuration, request-scoped context values and the
// app launcher used by the entrypoint.
//
// Typical usage at request ingress:
//
//	ctx = commons.ContextWithLogger(ctx, logger)
//	ctx = commons.ContextWithHeaderID(ctx, requestID)
package commons
