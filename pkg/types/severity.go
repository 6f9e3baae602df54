package types

// Severity enum values, matching the monitoring-plugin convention.
const (
	SeverityOK       Severity = iota // Exit 0.
	SeverityWarning                  // Exit 1.
	SeverityCritical                 // Exit 2.
	SeverityUnknown                  // Exit 3.
)

// Severity is the monitoring-system-compatible result of a run.
type Severity int

// ExitCode returns the process exit code for the severity (0/1/2/3).
func (s Severity) ExitCode() int {
	return int(s)
}

// Prefix returns the line prefix used for diagnostic output at this severity.
func (s Severity) Prefix() string {
	switch s {
	case SeverityOK:
		return "Info:"
	case SeverityWarning:
		return "Warning:"
	case SeverityCritical:
		return "Critical:"
	case SeverityUnknown:
		return "Unknown:"
	default:
		return "Unknown:"
	}
}

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	case SeverityUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}
