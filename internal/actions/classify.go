package actions

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/session"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// classifyImage determines the patch status of a container's image: check for
// pending upgrades, fetch the latest image when any exist, and verify the
// fetched image inside a throwaway probe. The resolved status is cached so the
// sequence runs at most once per unique image reference per run.
//
// The pending package names from the pre-fetch check are returned alongside
// the status for reporting.
func classifyImage(
	client types.Client,
	prober types.PackageProber,
	c types.Container,
	cache session.ImageCache,
) (types.ImageStatus, []string, error) {
	clog := logrus.WithFields(logrus.Fields{
		"container": c.Name(),
		"image":     c.ImageRef(),
	})

	check, err := prober.Check(c.ID())
	if err != nil {
		// A failed check must not silently continue.
		return types.StatusUnknown, nil, types.NewAbort(
			types.SeverityWarning,
			fmt.Sprintf("update check failed for container %s", c.Name()),
			err,
		)
	}

	if !check.Pending {
		clog.Info("Image has no pending upgrades")
		cache.Set(c.ImageRef(), types.StatusUpToDate)

		return types.StatusUpToDate, nil, nil
	}

	clog.WithField("packages", check.Packages).
		Info("Image has pending upgrades, fetching the latest version")

	// A failed fetch must never lead to a restart decision using a
	// possibly-missing image.
	if err := client.PullImage(c.ImageRef()); err != nil {
		return types.StatusUnknown, nil, types.NewAbort(
			types.SeverityWarning,
			fmt.Sprintf("failed to fetch the latest image %s", c.ImageRef()),
			err,
		)
	}

	status, err := verifyFetchedImage(client, prober, c, check.Packages)
	if err != nil {
		return types.StatusUnknown, nil, err
	}

	cache.Set(c.ImageRef(), status)

	return status, check.Packages, nil
}

// verifyFetchedImage starts an ephemeral probe from the freshly fetched image
// and re-runs the upgrade check inside it. The probe is torn down on every
// exit path, including abort, so repeated runs never leak instances.
func verifyFetchedImage(
	client types.Client,
	prober types.PackageProber,
	c types.Container,
	prefetchPackages []string,
) (types.ImageStatus, error) {
	probeID, err := client.StartProbe(c.ImageRef())
	if err != nil {
		return types.StatusUnknown, types.NewAbort(
			types.SeverityUnknown,
			fmt.Sprintf("failed to start a verification probe for image %s", c.ImageRef()),
			err,
		)
	}

	defer func() {
		if err := client.RemoveProbe(probeID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"image":    c.ImageRef(),
				"probe_id": probeID.ShortID(),
			}).Warn("Failed to tear down verification probe")
		}
	}()

	check, err := prober.Check(probeID)
	if err != nil {
		return types.StatusUnknown, types.NewAbort(
			types.SeverityUnknown,
			fmt.Sprintf(
				"verification probe for image %s returned an unusable result",
				c.ImageRef(),
			),
			err,
		)
	}

	if !check.Pending {
		logrus.WithField("image", c.ImageRef()).
			Info("Fetched image is fully patched")

		return types.StatusUpdated, nil
	}

	logrus.WithFields(logrus.Fields{
		"container": c.Name(),
		"image":     c.ImageRef(),
		"packages":  prefetchPackages,
	}).Warn("Fetched image still has pending upgrades; no fully patched image is available")

	return types.StatusUpdateNeeded, nil
}
