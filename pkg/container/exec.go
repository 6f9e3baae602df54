package container

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	dockerContainer "github.com/docker/docker/api/types/container"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// execPollInterval is the wait between exec status checks.
const execPollInterval = 1 * time.Second

// ExecuteCommand runs a shell command inside a container and returns its
// combined output and exit code. There is deliberately no timeout: the audit
// is strictly sequential and relies on the daemon's own call semantics.
func (c *client) ExecuteCommand(
	containerID types.ContainerID,
	command string,
) (types.ExecResult, error) {
	ctx := context.Background()
	clog := logrus.WithField("container_id", containerID.ShortID())

	clog.WithField("command", command).Debug("Creating exec instance")

	execConfig := dockerContainer.ExecOptions{
		Tty:    true,
		Detach: false,
		Cmd:    []string{"sh", "-c", command},
	}

	execInstance, err := c.api.ContainerExecCreate(ctx, string(containerID), execConfig)
	if err != nil {
		clog.WithError(err).Debug("Failed to create exec instance")

		return types.ExecResult{}, fmt.Errorf("%w: %w", errCreateExecFailed, err)
	}

	output, err := c.captureExecOutput(ctx, execInstance.ID)
	if err != nil {
		clog.WithError(err).Debug("Failed to capture command output")

		return types.ExecResult{}, err
	}

	exitCode, err := c.waitForExec(ctx, execInstance.ID)
	if err != nil {
		clog.WithError(err).Debug("Failed to inspect exec instance")

		return types.ExecResult{}, err
	}

	clog.WithFields(logrus.Fields{
		"command":   command,
		"exit_code": exitCode,
	}).Debug("Executed command")

	return types.ExecResult{Output: output, ExitCode: exitCode}, nil
}

// captureExecOutput attaches to an exec instance, which also starts it, and
// reads its combined output until the command finishes.
func (c *client) captureExecOutput(ctx context.Context, execID string) (string, error) {
	clog := logrus.WithField("exec_id", execID)

	response, err := c.api.ContainerExecAttach(
		ctx,
		execID,
		dockerContainer.ExecStartOptions{Tty: true},
	)
	if err != nil {
		clog.WithError(err).Debug("Failed to attach to exec instance")

		return "", fmt.Errorf("%w: %w", errAttachExecFailed, err)
	}

	defer response.Close()

	var writer bytes.Buffer

	if _, err := writer.ReadFrom(response.Reader); err != nil {
		clog.WithError(err).Debug("Failed to read exec output")

		return "", fmt.Errorf("%w: %w", errReadExecOutputFailed, err)
	}

	return strings.TrimSpace(writer.String()), nil
}

// waitForExec polls an exec instance until it finishes and returns its exit
// code.
func (c *client) waitForExec(ctx context.Context, execID string) (int, error) {
	for {
		inspect, err := c.api.ContainerExecInspect(ctx, execID)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errInspectExecFailed, err)
		}

		if !inspect.Running {
			return inspect.ExitCode, nil
		}

		time.Sleep(execPollInterval)
	}
}
