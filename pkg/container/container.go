package container

import (
	"strings"

	dockerContainer "github.com/docker/docker/api/types/container"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// Container is the inventory record of one running container, implementing
// types.Container. It is built once at listing time and not refreshed.
type Container struct {
	id       types.ContainerID
	name     string
	imageRef string
}

// NewContainer creates an inventory record from a Docker container summary.
// Docker reports names with a leading slash, which is stripped.
func NewContainer(summary dockerContainer.Summary) *Container {
	name := ""
	if len(summary.Names) > 0 {
		name = strings.TrimPrefix(summary.Names[0], "/")
	}

	return &Container{
		id:       types.ContainerID(summary.ID),
		name:     name,
		imageRef: summary.Image,
	}
}

// ID returns the container's unique identifier.
func (c *Container) ID() types.ContainerID {
	return c.id
}

// Name returns the container name without the leading slash.
func (c *Container) Name() string {
	return c.name
}

// ImageRef returns the image reference the runtime reported for the container.
func (c *Container) ImageRef() string {
	return c.imageRef
}
