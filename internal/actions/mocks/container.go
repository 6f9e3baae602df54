// Package mocks provides hand-rolled test doubles for the audit engine.
package mocks

import (
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// MockContainer is a minimal types.Container for engine tests.
type MockContainer struct {
	ContainerID types.ContainerID
	NameValue   string
	Image       string
}

// CreateMockContainer constructs a mock container record.
func CreateMockContainer(id, name, image string) *MockContainer {
	return &MockContainer{
		ContainerID: types.ContainerID(id),
		NameValue:   name,
		Image:       image,
	}
}

// ID returns the mock container ID.
func (c *MockContainer) ID() types.ContainerID {
	return c.ContainerID
}

// Name returns the mock container name.
func (c *MockContainer) Name() string {
	return c.NameValue
}

// ImageRef returns the mock image reference.
func (c *MockContainer) ImageRef() string {
	return c.Image
}
