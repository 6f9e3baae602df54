package actions

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/session"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// bareImageRef matches image references that have degraded to a bare content
// address (a hex image ID, optionally digest-prefixed) instead of a repo:tag
// form. Such a reference means the image's tag was reassigned elsewhere.
var bareImageRef = regexp.MustCompile(`^(sha256:)?[0-9a-fA-F]{12,64}$`)

// Params configures an audit run.
type Params struct {
	// Policy merges proposed fleet decisions into the running verdict.
	// Defaults to session.LastWriteWins, preserving the established
	// overwrite behavior.
	Policy session.DecisionPolicy
}

// Audit classifies every running container's image, verifies freshly pulled
// replacements, and folds the outcomes into one fleet restart decision.
//
// A returned error is always a *types.AbortError; partial results are never
// salvaged from an aborted run.
func Audit(client types.Client, prober types.PackageProber, params Params) (types.Report, error) {
	if params.Policy == nil {
		params.Policy = session.LastWriteWins
	}

	containers, err := client.ListContainers()
	if err != nil {
		return nil, types.NewAbort(
			types.SeverityCritical,
			"failed to list running containers",
			err,
		)
	}

	logrus.WithField("count", len(containers)).Info("Auditing running containers")

	cache := session.NewImageCache()

	if err := classifyInventory(client, containers, cache); err != nil {
		return nil, err
	}

	progress := session.NewProgress()
	decision := types.DecisionNoRestart

	for _, c := range containers {
		proposed, err := auditContainer(client, prober, c, cache, progress)
		if err != nil {
			return nil, err
		}

		if proposed != nil {
			decision = params.Policy(decision, *proposed)
		}
	}

	logrus.WithField("decision", decision.String()).Info("Completed container audit")

	return progress.Report(decision), nil
}

// classifyInventory resolves the untagged-image edge case for every container
// before any update classification runs. Containers whose reported reference
// is a bare content address are marked untagged once their original reference
// is recovered; a failed recovery aborts the run, since image identity can no
// longer be trusted.
func classifyInventory(
	client types.Client,
	containers []types.Container,
	cache session.ImageCache,
) error {
	for _, c := range containers {
		if !bareImageRef.MatchString(c.ImageRef()) {
			continue
		}

		original, err := client.InspectImageRef(c.ID())
		if err != nil || original == "" {
			return types.NewAbort(
				types.SeverityCritical,
				fmt.Sprintf(
					"could not recover the image reference of container %s; potential Docker API change",
					c.Name(),
				),
				err,
			)
		}

		logrus.WithFields(logrus.Fields{
			"container": c.Name(),
			"image":     original,
		}).Warn("Container runs an untagged image; its tag was reassigned elsewhere")

		cache.Set(c.ImageRef(), types.StatusUntagged)
	}

	return nil
}

// auditContainer processes one container in inventory order and returns the
// fleet decision it proposes, if any. Resolved image statuses short-circuit
// without re-probing; that branch is the memoization guard.
func auditContainer(
	client types.Client,
	prober types.PackageProber,
	c types.Container,
	cache session.ImageCache,
	progress *session.Progress,
) (*types.Decision, error) {
	switch status := cache.Get(c.ImageRef()); status {
	case types.StatusUpToDate:
		// A cached "fine" result never resets an earlier decision.
		progress.AddOutcome(c, types.OutcomeOK, nil)

		return nil, nil
	case types.StatusUpdated:
		progress.AddOutcome(c, types.OutcomeRestartScheduled, nil)

		return proposeDecision(types.DecisionRestart), nil
	case types.StatusUpdateNeeded:
		progress.AddOutcome(c, types.OutcomeRestartBlocked, nil)

		return proposeDecision(types.DecisionBlocked), nil
	case types.StatusUntagged:
		progress.AddOutcome(c, types.OutcomeRestartScheduled, nil)

		return proposeDecision(types.DecisionRestart), nil
	case types.StatusUnsupported:
		progress.AddOutcome(c, types.OutcomeUnsupportedImage, nil)

		return nil, nil
	case types.StatusUnknown:
		return auditUnclassified(client, prober, c, cache, progress)
	default:
		return nil, types.NewAbort(
			types.SeverityUnknown,
			fmt.Sprintf(
				"unexpected image status %q for container %s",
				status.String(),
				c.Name(),
			),
			nil,
		)
	}
}

// auditUnclassified handles a container whose image has not been classified
// yet: detect the package manager, classify the image when it is supported,
// and otherwise distinguish stopped containers from unsupported images.
func auditUnclassified(
	client types.Client,
	prober types.PackageProber,
	c types.Container,
	cache session.ImageCache,
	progress *session.Progress,
) (*types.Decision, error) {
	supported, err := prober.Detect(c.ID())
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"container": c.Name(),
			"image":     c.ImageRef(),
		}).Warn("Could not determine the container's package manager")

		progress.AddOutcome(c, types.OutcomeManagerUndetermined, nil)

		return nil, nil
	}

	if supported {
		return classifyAndRecord(client, prober, c, cache, progress)
	}

	running, err := client.IsContainerRunning(c.Name())
	if err != nil {
		return nil, types.NewAbort(
			types.SeverityCritical,
			fmt.Sprintf("failed to re-check container %s against a fresh listing", c.Name()),
			err,
		)
	}

	if !running {
		logrus.WithField("container", c.Name()).
			Info("Container has stopped since the scan started")

		progress.AddOutcome(c, types.OutcomeStoppedSinceScan, nil)

		return nil, nil
	}

	cache.Set(c.ImageRef(), types.StatusUnsupported)
	progress.AddOutcome(c, types.OutcomeUnsupportedImage, nil)

	return nil, nil
}

// classifyAndRecord runs the first-sighting classification of a container's
// image and records the outcome. Only the updated status proposes a fleet
// decision from this path: an image that remains unpatched after the fetch
// merely warns here, and blocks the fleet only if a later container sharing
// the now-cached status is processed.
func classifyAndRecord(
	client types.Client,
	prober types.PackageProber,
	c types.Container,
	cache session.ImageCache,
	progress *session.Progress,
) (*types.Decision, error) {
	status, packages, err := classifyImage(client, prober, c, cache)
	if err != nil {
		return nil, err
	}

	switch status {
	case types.StatusUpToDate:
		progress.AddOutcome(c, types.OutcomeOK, nil)

		return nil, nil
	case types.StatusUpdated:
		progress.AddOutcome(c, types.OutcomeRestartScheduled, nil)

		return proposeDecision(types.DecisionRestart), nil
	case types.StatusUpdateNeeded:
		progress.AddOutcome(c, types.OutcomeRestartBlocked, packages)

		return nil, nil
	default:
		return nil, types.NewAbort(
			types.SeverityUnknown,
			fmt.Sprintf(
				"classification of image %s produced unexpected status %q",
				c.ImageRef(),
				status.String(),
			),
			nil,
		)
	}
}

// proposeDecision returns a decision proposal for the fold.
func proposeDecision(decision types.Decision) *types.Decision {
	return &decision
}
