// Package nagios models the monitoring-plugin exit status convention.
package nagios

// Status is a plugin exit status. The numeric value is the process exit code.
type Status int

// The checks report every problem as CRITICAL, so WARNING(1) has no
// constant.
const (
	OK       Status = 0
	Critical Status = 2
	Unknown  Status = 3
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Critical:
		return "CRITICAL"
	case Unknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for the status.
func (s Status) ExitCode() int {
	return int(s)
}

// Raise returns the more severe of s and other. Severity follows the exit
// code ordering, so UNKNOWN outranks CRITICAL.
func (s Status) Raise(other Status) Status {
	if other > s {
		return other
	}
	return s
}
