package constant

// Response body status values.
const (
	StatusSuccess = "success"
	StatusOK      = "ok"
)

// Fixed response messages.
const (
	MessageHelloWorld = "Hello World"
	MessageHelloAPI   = "Hello API"
)

// ErrorTitleRequestFailed is the title used for errors produced by the router.
const ErrorTitleRequestFailed = "request_failed"
