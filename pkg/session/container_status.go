package session

import (
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// ContainerStatus holds one container's audit result during a run.
type ContainerStatus struct {
	containerID     types.ContainerID // Container ID.
	containerName   string            // Container name.
	imageRef        string            // Image reference the container was audited under.
	outcome         types.Outcome     // Classification outcome.
	pendingPackages []string          // Packages still pending upgrade, if any.
}

// ID returns the container ID.
func (s *ContainerStatus) ID() types.ContainerID {
	return s.containerID
}

// Name returns the container name.
func (s *ContainerStatus) Name() string {
	return s.containerName
}

// ImageRef returns the image reference the container was audited under.
func (s *ContainerStatus) ImageRef() string {
	return s.imageRef
}

// Outcome returns the classification outcome.
func (s *ContainerStatus) Outcome() types.Outcome {
	return s.outcome
}

// PendingPackages returns the package names still pending upgrade.
func (s *ContainerStatus) PendingPackages() []string {
	return s.pendingPackages
}
