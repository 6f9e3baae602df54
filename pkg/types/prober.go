package types

// UpgradeCheck is the structured result of a dry-run upgrade check.
//
// The decision engine only ever sees this type; parsing of the package
// manager's free-text output is confined to the prober implementation.
type UpgradeCheck struct {
	Pending  bool     // True if any package upgrades are outstanding.
	Packages []string // Names of the pending packages, empty when none.
}

// PackageProber probes a container's package manager for pending OS-package
// upgrades.
//
// Implementations cover one package-manager family each; additional families
// are supported by substituting another implementation without touching the
// decision engine.
type PackageProber interface {
	// Name identifies the package-manager family, for logging.
	Name() string

	// Detect reports whether this prober's package manager is present in the
	// target container. An error means the probe could not run at all (the
	// manager-undetermined case), not that the manager is absent.
	Detect(target ContainerID) (bool, error)

	// Check refreshes package metadata and runs a dry-run upgrade check inside
	// the target container. Any error means the check itself failed and must
	// not be silently ignored.
	Check(target ContainerID) (UpgradeCheck, error)
}
