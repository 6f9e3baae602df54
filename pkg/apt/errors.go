package apt

import (
	"errors"
)

// Errors for prober operations in prober.go.
var (
	// errDetectFailed indicates the package-manager detection command could not run.
	errDetectFailed = errors.New("failed to probe for apt-get")
	// errRefreshFailed indicates apt-get could not refresh its package metadata.
	errRefreshFailed = errors.New("failed to refresh package metadata")
	// errHelperUnavailable indicates unattended-upgrade was absent and could not be installed.
	errHelperUnavailable = errors.New("unattended-upgrade is not available")
	// errCheckFailed indicates the dry-run upgrade check did not complete.
	errCheckFailed = errors.New("failed to run upgrade check")
)
