// Package runtime provides panic recovery for goroutines and handlers.
//
// Recovered panics are logged with their stack trace and recorded on the
// active span, so a crash inside a request or a background worker is visible
// in both logs and traces. A PanicPolicy decides whether the process keeps
// running after the panic has been recorded.
package runtime
