package types

// shortIDLength defines the truncated length for container IDs in logs (12).
const shortIDLength = 12

// ContainerID is the unique identifier of a container on the Docker host.
type ContainerID string

// ShortID returns the container ID truncated to 12 characters for readable logging.
func (id ContainerID) ShortID() string {
	if len(id) > shortIDLength {
		return string(id[:shortIDLength])
	}

	return string(id)
}

// Container is the read-only view of a running container taken at inventory time.
//
// The record is immutable for the remainder of the run; a container that stops
// mid-run is detected via a fresh listing and reported, never retried.
type Container interface {
	// ID returns the container's unique identifier.
	ID() ContainerID

	// Name returns the container name, unique among running containers for the
	// duration of the run.
	Name() string

	// ImageRef returns the image reference the runtime reported for this
	// container. It is either tag-qualified or, for containers whose image lost
	// its tag, a bare content address. It serves as the memoization key for the
	// per-run image status cache.
	ImageRef() string
}
