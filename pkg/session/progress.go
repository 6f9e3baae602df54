package session

import (
	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// Progress accumulates container statuses during a run, preserving inventory
// order. The order matters: the final report lists containers exactly as the
// runtime listed them, and the decision fold depends on it.
type Progress struct {
	statuses []*ContainerStatus
}

// NewProgress returns an empty progress accumulator.
func NewProgress() *Progress {
	return &Progress{}
}

// AddOutcome records the outcome for a container, optionally with the package
// names still pending upgrade.
func (p *Progress) AddOutcome(
	container types.Container,
	outcome types.Outcome,
	pendingPackages []string,
) {
	p.statuses = append(p.statuses, &ContainerStatus{
		containerID:     container.ID(),
		containerName:   container.Name(),
		imageRef:        container.ImageRef(),
		outcome:         outcome,
		pendingPackages: pendingPackages,
	})
	logrus.WithFields(logrus.Fields{
		"container": container.Name(),
		"image":     container.ImageRef(),
		"outcome":   outcome.String(),
	}).Debug("Recorded container outcome")
}

// Report finalizes the run into a report carrying the given fleet decision.
func (p *Progress) Report(decision types.Decision) types.Report {
	logrus.WithFields(logrus.Fields{
		"count":    len(p.statuses),
		"decision": decision.String(),
	}).Debug("Generating audit report")

	return newReport(p.statuses, decision)
}
