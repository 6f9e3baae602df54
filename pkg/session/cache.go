package session

import (
	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// ImageCache memoizes the patch status of each unique image reference for the
// lifetime of one run.
//
// The engine consults the cache before classifying a container's image, so the
// expensive probe sequence runs at most once per unique reference even when
// several containers share it.
type ImageCache map[string]types.ImageStatus

// NewImageCache returns an empty per-run cache.
func NewImageCache() ImageCache {
	return make(ImageCache)
}

// Get returns the cached status for an image reference, defaulting to
// StatusUnknown for references never seen.
func (c ImageCache) Get(imageRef string) types.ImageStatus {
	return c[imageRef]
}

// Set records the status for an image reference. A resolved status is never
// reset back to unknown; attempting to do so is ignored and logged, since it
// would break the memoization invariant.
func (c ImageCache) Set(imageRef string, status types.ImageStatus) {
	if current, ok := c[imageRef]; ok && current != types.StatusUnknown &&
		status == types.StatusUnknown {
		logrus.WithFields(logrus.Fields{
			"image":  imageRef,
			"status": current.String(),
		}).Debug("Ignored attempt to reset resolved image status")

		return
	}

	c[imageRef] = status
	logrus.WithFields(logrus.Fields{
		"image":  imageRef,
		"status": status.String(),
	}).Debug("Cached image status")
}
