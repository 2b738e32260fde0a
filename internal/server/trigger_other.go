//go:build !unix

package server

// TerminationTrigger never fires on platforms without SIGTERM.
func TerminationTrigger() Trigger {
	return NeverTrigger("terminate")
}
