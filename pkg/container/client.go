package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"

	dockerContainer "github.com/docker/docker/api/types/container"
	dockerClient "github.com/docker/docker/client"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/registry"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// client is the concrete implementation of types.Client over the Docker API.
type client struct {
	api dockerClient.APIClient
}

// NewClient initializes a Docker API client from the environment (DOCKER_HOST,
// DOCKER_API_VERSION and friends) with API version negotiation.
func NewClient() (types.Client, error) {
	api, err := dockerClient.NewClientWithOpts(
		dockerClient.FromEnv,
		dockerClient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInitClientFailed, err)
	}

	logrus.WithField("client_version", api.ClientVersion()).Debug("Initialized Docker client")

	return &client{api: api}, nil
}

// RuntimeInstalled reports whether the docker binary is present on the host.
// Hosts that never run the container runtime are not considered failures.
func RuntimeInstalled() bool {
	_, err := exec.LookPath("docker")

	return err == nil
}

// Ping performs a basic liveness call against the Docker daemon.
func (c *client) Ping() error {
	if _, err := c.api.Ping(context.Background()); err != nil {
		return fmt.Errorf("%w: %w", errPingFailed, err)
	}

	return nil
}

// ListContainers returns the currently running containers in the order the
// daemon reports them.
func (c *client) ListContainers() ([]types.Container, error) {
	summaries, err := c.api.ContainerList(context.Background(), dockerContainer.ListOptions{})
	if err != nil {
		logrus.WithError(err).Debug("Failed to list containers")

		return nil, fmt.Errorf("%w: %w", errListContainersFailed, err)
	}

	containers := make([]types.Container, 0, len(summaries))
	for _, summary := range summaries {
		containers = append(containers, NewContainer(summary))
	}

	logrus.WithField("count", len(containers)).Debug("Listed running containers")

	return containers, nil
}

// IsContainerRunning re-checks against a fresh listing whether the named
// container is still running.
func (c *client) IsContainerRunning(name string) (bool, error) {
	containers, err := c.ListContainers()
	if err != nil {
		return false, err
	}

	for _, container := range containers {
		if container.Name() == name {
			return true, nil
		}
	}

	return false, nil
}

// InspectImageRef recovers the image reference a container was created from,
// as recorded in its configuration.
func (c *client) InspectImageRef(containerID types.ContainerID) (string, error) {
	info, err := c.api.ContainerInspect(context.Background(), string(containerID))
	if err != nil {
		logrus.WithError(err).
			WithField("container_id", containerID.ShortID()).
			Debug("Failed to inspect container")

		return "", fmt.Errorf("%w: %w", errInspectContainerFailed, err)
	}

	if info.Config == nil {
		return "", nil
	}

	return info.Config.Image, nil
}

// PullImage fetches the latest version of an image reference, resolving
// registry credentials from the environment or the Docker config file.
func (c *client) PullImage(imageRef string) error {
	fields := logrus.Fields{"image": imageRef}

	opts, err := registry.GetPullOptions(imageRef)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to resolve pull options")

		return fmt.Errorf("%w: %s: %w", errPullImageFailed, imageRef, err)
	}

	logrus.WithFields(fields).Debug("Pulling image")

	response, err := c.api.ImagePull(context.Background(), imageRef, opts)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to pull image")

		return fmt.Errorf("%w: %s: %w", errPullImageFailed, imageRef, err)
	}

	defer response.Close()

	// The pull is not complete until the response stream is drained.
	if _, err := io.Copy(io.Discard, response); err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to read pull response")

		return fmt.Errorf("%w: %s: %w", errReadPullResponseFailed, imageRef, err)
	}

	logrus.WithFields(fields).Debug("Pulled image")

	return nil
}
