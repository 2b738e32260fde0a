//go:build unix

package server

import "syscall"

// TerminationTrigger fires on SIGTERM.
func TerminationTrigger() Trigger {
	return SignalTrigger("terminate", syscall.SIGTERM)
}
