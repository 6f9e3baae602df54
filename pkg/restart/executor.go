// Package restart performs the fleet restart once the audit decides one is
// due, via systemd, SysV service, or docker compose.
package restart

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Mode values accepted as the first positional argument.
const (
	// ModeSystemctl restarts a systemd unit.
	ModeSystemctl Mode = "systemctl"
	// ModeService restarts a SysV-style service.
	ModeService Mode = "service"
	// ModeCompose restarts the services of a compose file.
	ModeCompose Mode = "compose"
)

// Mode selects the restart mechanism.
type Mode string

// Errors for restart operations.
var (
	// ErrInvalidMode indicates an unrecognized restart mode argument.
	ErrInvalidMode = errors.New("invalid restart mode")
	// errComposeFileMissing indicates the compose file target does not exist.
	errComposeFileMissing = errors.New("compose file not found")
	// errRestartFailed indicates the restart command exited non-zero.
	errRestartFailed = errors.New("restart command failed")
)

// ParseMode validates a restart mode argument.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeSystemctl, ModeService, ModeCompose:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("%w: %q (expected systemctl, service or compose)", ErrInvalidMode, raw)
	}
}

// CommandRunner runs an external command and returns its combined output.
// It exists so tests can substitute the actual shell-out.
type CommandRunner interface {
	Run(name string, args ...string) (string, error)
}

// execRunner shells out via os/exec.
type execRunner struct{}

// Run executes the command and returns its combined output.
func (execRunner) Run(name string, args ...string) (string, error) {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%w: %w", errRestartFailed, err)
	}

	return string(output), nil
}

// Executor restarts the managed containers through the configured mechanism.
type Executor struct {
	runner CommandRunner
	fs     afero.Fs
}

// NewExecutor creates an executor shelling out to the host.
func NewExecutor() *Executor {
	return &Executor{runner: execRunner{}, fs: afero.NewOsFs()}
}

// NewExecutorWith creates an executor with an injected runner and filesystem.
func NewExecutorWith(runner CommandRunner, fs afero.Fs) *Executor {
	return &Executor{runner: runner, fs: fs}
}

// Restart performs the restart for the given mode and target, logging the
// command output. The caller only learns success or failure.
func (e *Executor) Restart(mode Mode, target string) error {
	fields := logrus.Fields{"mode": string(mode), "target": target}
	logrus.WithFields(fields).Info("Restarting managed containers")

	var (
		output string
		err    error
	)

	switch mode {
	case ModeSystemctl:
		output, err = e.runner.Run("systemctl", "restart", target)
	case ModeService:
		output, err = e.runner.Run("service", target, "restart")
	case ModeCompose:
		exists, fsErr := afero.Exists(e.fs, target)
		if fsErr != nil || !exists {
			return fmt.Errorf("%w: %s", errComposeFileMissing, target)
		}

		output, err = e.runner.Run("docker", "compose", "-f", target, "restart")
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}

	if err != nil {
		logrus.WithError(err).WithFields(fields).
			WithField("output", output).Warn("Restart command failed")

		return err
	}

	logrus.WithFields(fields).WithField("output", output).Debug("Restart command completed")

	return nil
}
