package runtime

// PanicPolicy decides what happens after a recovered panic has been logged.
type PanicPolicy int

const (
	// KeepRunning swallows the panic after it has been recorded.
	KeepRunning PanicPolicy = iota
	// CrashProcess re-panics once the panic has been recorded.
	CrashProcess
)

// String returns the policy name used in log fields.
func (p PanicPolicy) String() string {
	switch p {
	case KeepRunning:
		return "KeepRunning"
	case CrashProcess:
		return "CrashProcess"
	default:
		return "Unknown"
	}
}
