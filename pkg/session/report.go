package session

import (
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// report implements types.Report over the accumulated container statuses.
type report struct {
	all      []types.ContainerReport
	decision types.Decision
}

// newReport builds a report from statuses in inventory order.
func newReport(statuses []*ContainerStatus, decision types.Decision) types.Report {
	all := make([]types.ContainerReport, 0, len(statuses))
	for _, status := range statuses {
		all = append(all, status)
	}

	return &report{all: all, decision: decision}
}

// All returns every container report in inventory order.
func (r *report) All() []types.ContainerReport {
	return r.all
}

// UpToDate returns the containers whose images carried no pending upgrades.
func (r *report) UpToDate() []types.ContainerReport {
	return r.withOutcome(types.OutcomeOK)
}

// Scheduled returns the containers marked for restart.
func (r *report) Scheduled() []types.ContainerReport {
	return r.withOutcome(types.OutcomeRestartScheduled)
}

// Blocked returns the containers whose images could not be fully patched.
func (r *report) Blocked() []types.ContainerReport {
	return r.withOutcome(types.OutcomeRestartBlocked)
}

// Undetermined returns the containers whose package manager could not be probed.
func (r *report) Undetermined() []types.ContainerReport {
	return r.withOutcome(types.OutcomeManagerUndetermined)
}

// Unsupported returns the containers running an unrecognized package manager.
func (r *report) Unsupported() []types.ContainerReport {
	return r.withOutcome(types.OutcomeUnsupportedImage)
}

// Stopped returns the containers that disappeared after inventory.
func (r *report) Stopped() []types.ContainerReport {
	return r.withOutcome(types.OutcomeStoppedSinceScan)
}

// Decision returns the fleet-wide restart verdict.
func (r *report) Decision() types.Decision {
	return r.decision
}

// withOutcome filters the reports by outcome, preserving inventory order.
func (r *report) withOutcome(outcome types.Outcome) []types.ContainerReport {
	var filtered []types.ContainerReport

	for _, c := range r.all {
		if c.Outcome() == outcome {
			filtered = append(filtered, c)
		}
	}

	return filtered
}
