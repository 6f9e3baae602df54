package types

// ExecResult holds the combined output and exit status of a command executed
// inside a container.
//
// A non-zero exit code is not an error at this boundary: callers decide what an
// exit code means. The error return of ExecuteCommand is reserved for failures
// to run the command at all.
type ExecResult struct {
	Output   string // Combined stdout/stderr, trimmed.
	ExitCode int    // Command exit code.
}

// Client defines the interface to the container runtime consumed by the audit
// engine.
//
// All calls are synchronous and carry no timeout; the run proceeds to
// completion or to an abort (see AbortError).
type Client interface {
	// Ping performs a basic liveness call against the runtime daemon.
	Ping() error

	// ListContainers returns the currently running containers in the order the
	// runtime reports them. That order drives the decision fold.
	ListContainers() ([]Container, error)

	// IsContainerRunning re-checks against a fresh listing whether the named
	// container is still running.
	IsContainerRunning(name string) (bool, error)

	// InspectImageRef recovers the original image reference a container was
	// created from, as recorded in its configuration. Used to resolve
	// containers whose reported reference has degraded to a bare content
	// address.
	InspectImageRef(containerID ContainerID) (string, error)

	// PullImage fetches the latest version of an image reference from its
	// registry, reporting any error text from the pull.
	PullImage(imageRef string) error

	// StartProbe creates and starts a throwaway detached container from the
	// given image, with its entrypoint overridden so it idles. The caller is
	// responsible for tearing it down via RemoveProbe.
	StartProbe(imageRef string) (ContainerID, error)

	// RemoveProbe kills and force-removes a probe container. Removing a probe
	// that is already gone is not an error.
	RemoveProbe(containerID ContainerID) error

	// ExecuteCommand runs a shell command inside a container and returns its
	// combined output and exit code. The error return indicates the command
	// could not be executed, not that it exited non-zero.
	ExecuteCommand(containerID ContainerID, command string) (ExecResult, error)
}
