package constant

// TelemetrySDKName identifies this service's instrumentation in resource attributes.
const TelemetrySDKName = "hello-api/opentelemetry"

// HTTP server metric names.
const (
	MetricHTTPRequestsTotal   = "http_server_requests_total"
	MetricHTTPRequestDuration = "http_server_request_duration_seconds"
)

// Span attribute and event keys.
const (
	AttrPrefixPanic     = "panic."
	EventPanicRecovered = "panic.recovered"
)
