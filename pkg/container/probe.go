package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	cerrdefs "github.com/containerd/errdefs"
	dockerContainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"

	"github.com/Gijutsu/docker-unattended-upgrades/internal/util"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// probeNamePrefix marks verification probe containers so leftovers are
// recognizable if teardown is ever interrupted externally.
const probeNamePrefix = "patch-probe-"

// probeIdleSeconds is how long a probe's sleep entrypoint keeps it alive. The
// upgrade check inside runs well within this window; the probe is killed as
// soon as the check finishes either way.
const probeIdleSeconds = "600"

// StartProbe creates and starts a throwaway detached container from the given
// image, with the entrypoint overridden to an idle sleep so commands can be
// executed inside it.
func (c *client) StartProbe(imageRef string) (types.ContainerID, error) {
	ctx := context.Background()
	name := probeNamePrefix + util.RandName()
	fields := logrus.Fields{"image": imageRef, "probe": name}

	config := &dockerContainer.Config{
		Image:      imageRef,
		Entrypoint: strslice.StrSlice{"sleep"},
		Cmd:        strslice.StrSlice{probeIdleSeconds},
	}

	created, err := c.api.ContainerCreate(ctx, config, nil, nil, nil, name)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to create probe container")

		return "", fmt.Errorf("%w: %s: %w", errCreateProbeFailed, imageRef, err)
	}

	if err := c.api.ContainerStart(ctx, created.ID, dockerContainer.StartOptions{}); err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to start probe container")

		// Creation succeeded, so the probe must not leak.
		if removeErr := c.RemoveProbe(types.ContainerID(created.ID)); removeErr != nil {
			logrus.WithError(removeErr).WithFields(fields).
				Warn("Failed to remove probe container after failed start")
		}

		return "", fmt.Errorf("%w: %s: %w", errStartProbeFailed, imageRef, err)
	}

	logrus.WithFields(fields).
		WithField("probe_id", types.ContainerID(created.ID).ShortID()).
		Debug("Started verification probe")

	return types.ContainerID(created.ID), nil
}

// RemoveProbe kills and force-removes a probe container. A probe that is
// already gone, or already stopped when the kill lands, is not an error.
func (c *client) RemoveProbe(containerID types.ContainerID) error {
	ctx := context.Background()
	fields := logrus.Fields{"probe_id": containerID.ShortID()}

	if err := c.api.ContainerKill(ctx, string(containerID), "SIGKILL"); err != nil &&
		!cerrdefs.IsNotFound(err) && !cerrdefs.IsConflict(err) {
		logrus.WithError(err).WithFields(fields).Debug("Failed to kill probe container")
	}

	err := c.api.ContainerRemove(ctx, string(containerID), dockerContainer.RemoveOptions{
		Force: true,
	})
	if err != nil && !cerrdefs.IsNotFound(err) {
		logrus.WithError(err).WithFields(fields).Debug("Failed to remove probe container")

		return fmt.Errorf("%w: %w", errRemoveProbeFailed, err)
	}

	logrus.WithFields(fields).Debug("Removed verification probe")

	return nil
}
