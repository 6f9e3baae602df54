package types

// ImageStatus enum values.
const (
	StatusUnknown      ImageStatus = iota // Not yet classified.
	StatusUpToDate                        // No pending OS-package upgrades.
	StatusUpdated                         // A newer, verified-patched image was fetched.
	StatusUpdateNeeded                    // Upgrades exist but no fully patched image could be produced.
	StatusUntagged                        // Image lost its tag; the container is stale by definition.
	StatusUnsupported                     // Package manager not recognized.
)

// ImageStatus classifies the patch state of one unique image reference.
//
// Exactly one status exists per reference per run; once resolved it is never
// recomputed.
type ImageStatus int

// String returns the human-readable status name.
func (s ImageStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusUpToDate:
		return "up-to-date"
	case StatusUpdated:
		return "updated"
	case StatusUpdateNeeded:
		return "update-needed"
	case StatusUntagged:
		return "untagged"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Outcome enum values.
const (
	OutcomeOK                  Outcome = iota // Image is fully patched.
	OutcomeRestartScheduled                   // A patched image is ready; restart wanted.
	OutcomeRestartBlocked                     // Upgrades pending but no patched image exists.
	OutcomeManagerUndetermined                // Package-manager probe could not run.
	OutcomeUnsupportedImage                   // Package manager not recognized.
	OutcomeStoppedSinceScan                   // Container disappeared after inventory.
)

// Outcome is the derived, per-container view combining the container's image
// status with stop detection.
type Outcome int

// String returns the human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRestartScheduled:
		return "restart-scheduled"
	case OutcomeRestartBlocked:
		return "restart-blocked"
	case OutcomeManagerUndetermined:
		return "manager-undetermined"
	case OutcomeUnsupportedImage:
		return "unsupported-image"
	case OutcomeStoppedSinceScan:
		return "stopped-since-scan"
	default:
		return "unknown"
	}
}

// Decision enum values.
const (
	DecisionNoRestart Decision = iota // No container needs a restart.
	DecisionRestart                   // Restart the fleet; patched images are in place.
	DecisionBlocked                   // Restart desired, but at least one image is not fully patched.
)

// Decision is the single fleet-wide restart verdict produced by folding
// container outcomes in inventory order.
type Decision int

// String returns the human-readable decision name.
func (d Decision) String() string {
	switch d {
	case DecisionNoRestart:
		return "no-restart"
	case DecisionRestart:
		return "restart"
	case DecisionBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}
