package apt

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// Commands run inside the target container. Detection and the helper check use
// `command -v` so a missing binary is an exit code, not a shell error.
const (
	detectCommand        = "command -v apt-get"
	refreshCommand       = "apt-get update"
	helperProbeCommand   = "command -v unattended-upgrade"
	helperInstallCommand = "apt-get install -y unattended-upgrades"
	dryRunCommand        = "unattended-upgrade --dry-run -v"
)

// upgradeMarker is the literal phrase unattended-upgrade prints before the
// space-separated list of pending package names.
const upgradeMarker = "Packages that will be upgraded:"

// refreshFailureMarker appears in apt-get update output when a repository
// could not be fetched; apt-get itself may still exit zero in that case.
const refreshFailureMarker = "Failed"

// Prober checks apt-family containers for pending OS-package upgrades,
// implementing types.PackageProber over the container runtime's exec call.
type Prober struct {
	client types.Client
}

// NewProber creates an apt prober executing through the given runtime client.
func NewProber(client types.Client) *Prober {
	return &Prober{client: client}
}

// Name identifies the package-manager family.
func (p *Prober) Name() string {
	return "apt"
}

// Detect reports whether apt-get is present in the target container. An error
// means the probe command itself could not run.
func (p *Prober) Detect(target types.ContainerID) (bool, error) {
	result, err := p.client.ExecuteCommand(target, detectCommand)
	if err != nil {
		return false, fmt.Errorf("%w: %w", errDetectFailed, err)
	}

	return result.ExitCode == 0, nil
}

// Check refreshes package metadata, makes sure unattended-upgrade is
// available, and runs a dry-run upgrade check, returning the typed result.
func (p *Prober) Check(target types.ContainerID) (types.UpgradeCheck, error) {
	clog := logrus.WithField("container_id", target.ShortID())

	if err := p.refreshMetadata(target); err != nil {
		return types.UpgradeCheck{}, err
	}

	if err := p.ensureHelper(target); err != nil {
		return types.UpgradeCheck{}, err
	}

	clog.Debug("Running dry-run upgrade check")

	result, err := p.client.ExecuteCommand(target, dryRunCommand)
	if err != nil {
		return types.UpgradeCheck{}, fmt.Errorf("%w: %w", errCheckFailed, err)
	}

	if result.ExitCode != 0 {
		return types.UpgradeCheck{}, fmt.Errorf(
			"%w: exit code %d: %s",
			errCheckFailed,
			result.ExitCode,
			result.Output,
		)
	}

	check := parseDryRunOutput(result.Output)
	clog.WithFields(logrus.Fields{
		"pending":  check.Pending,
		"packages": check.Packages,
	}).Debug("Completed upgrade check")

	return check, nil
}

// refreshMetadata runs apt-get update, treating a "Failed" marker in the
// output as a failure even when apt-get exits zero.
func (p *Prober) refreshMetadata(target types.ContainerID) error {
	result, err := p.client.ExecuteCommand(target, refreshCommand)
	if err != nil {
		return fmt.Errorf("%w: %w", errRefreshFailed, err)
	}

	if result.ExitCode != 0 || strings.Contains(result.Output, refreshFailureMarker) {
		return fmt.Errorf("%w: %s", errRefreshFailed, result.Output)
	}

	return nil
}

// ensureHelper verifies unattended-upgrade is installed in the target,
// installing it when absent.
func (p *Prober) ensureHelper(target types.ContainerID) error {
	result, err := p.client.ExecuteCommand(target, helperProbeCommand)
	if err != nil {
		return fmt.Errorf("%w: %w", errHelperUnavailable, err)
	}

	if result.ExitCode == 0 {
		return nil
	}

	logrus.WithField("container_id", target.ShortID()).
		Info("Installing unattended-upgrades helper")

	result, err = p.client.ExecuteCommand(target, helperInstallCommand)
	if err != nil {
		return fmt.Errorf("%w: %w", errHelperUnavailable, err)
	}

	if result.ExitCode != 0 {
		return fmt.Errorf("%w: install failed: %s", errHelperUnavailable, result.Output)
	}

	return nil
}

// parseDryRunOutput extracts the pending package list from unattended-upgrade
// output. The marker line carries the package names space-separated after the
// marker phrase; a missing marker or an empty list means nothing is pending.
func parseDryRunOutput(output string) types.UpgradeCheck {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, upgradeMarker)
		if idx < 0 {
			continue
		}

		packages := strings.Fields(line[idx+len(upgradeMarker):])

		return types.UpgradeCheck{
			Pending:  len(packages) > 0,
			Packages: packages,
		}
	}

	return types.UpgradeCheck{}
}
