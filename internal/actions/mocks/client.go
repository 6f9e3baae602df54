package mocks

import (
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// TestData configures MockClient behavior and records the calls made against
// it, so tests can assert on probe lifecycles and pull attempts.
type TestData struct {
	Containers []types.Container // Inventory returned by ListContainers.

	PingError         error                        // Ping result.
	ListError         error                        // ListContainers failure, if any.
	InspectRefs       map[types.ContainerID]string // Original refs recovered by inspection.
	InspectError      error                        // InspectImageRef failure, if any.
	PullError         error                        // PullImage failure, if any.
	StartProbeError   error                        // StartProbe failure, if any.
	StoppedContainers map[string]bool              // Names absent from a fresh listing.
	FreshListError    error                        // IsContainerRunning failure, if any.

	PulledImages  []string            // Image references passed to PullImage.
	StartedProbes []string            // Image references probes were started from.
	RemovedProbes []types.ContainerID // Probe IDs passed to RemoveProbe.
}

// MockClient is a configurable types.Client double for engine tests.
type MockClient struct {
	TestData *TestData
}

// CreateMockClient constructs a mock client around the given test data.
func CreateMockClient(data *TestData) *MockClient {
	if data.InspectRefs == nil {
		data.InspectRefs = map[types.ContainerID]string{}
	}

	if data.StoppedContainers == nil {
		data.StoppedContainers = map[string]bool{}
	}

	return &MockClient{TestData: data}
}

// Ping returns the configured ping result.
func (c *MockClient) Ping() error {
	return c.TestData.PingError
}

// ListContainers returns the configured inventory.
func (c *MockClient) ListContainers() ([]types.Container, error) {
	if c.TestData.ListError != nil {
		return nil, c.TestData.ListError
	}

	return c.TestData.Containers, nil
}

// IsContainerRunning answers from the configured stop set.
func (c *MockClient) IsContainerRunning(name string) (bool, error) {
	if c.TestData.FreshListError != nil {
		return false, c.TestData.FreshListError
	}

	return !c.TestData.StoppedContainers[name], nil
}

// InspectImageRef returns the configured original reference for a container.
func (c *MockClient) InspectImageRef(containerID types.ContainerID) (string, error) {
	if c.TestData.InspectError != nil {
		return "", c.TestData.InspectError
	}

	return c.TestData.InspectRefs[containerID], nil
}

// PullImage records the pull and returns the configured result.
func (c *MockClient) PullImage(imageRef string) error {
	if c.TestData.PullError != nil {
		return c.TestData.PullError
	}

	c.TestData.PulledImages = append(c.TestData.PulledImages, imageRef)

	return nil
}

// StartProbe records the started probe and returns a deterministic probe ID
// derived from the image reference, so prober doubles can script per-probe
// results.
func (c *MockClient) StartProbe(imageRef string) (types.ContainerID, error) {
	if c.TestData.StartProbeError != nil {
		return "", c.TestData.StartProbeError
	}

	c.TestData.StartedProbes = append(c.TestData.StartedProbes, imageRef)

	return types.ContainerID("probe-" + imageRef), nil
}

// RemoveProbe records the teardown.
func (c *MockClient) RemoveProbe(containerID types.ContainerID) error {
	c.TestData.RemovedProbes = append(c.TestData.RemovedProbes, containerID)

	return nil
}

// ExecuteCommand is unused by the engine tests; the prober double answers
// upgrade checks directly.
func (c *MockClient) ExecuteCommand(
	_ types.ContainerID,
	_ string,
) (types.ExecResult, error) {
	return types.ExecResult{}, nil
}
