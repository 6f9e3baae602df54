package container

import (
	"errors"
)

// Errors for daemon and listing operations in client.go.
var (
	// errInitClientFailed indicates a failure to initialize the Docker API client.
	errInitClientFailed = errors.New("failed to initialize Docker client")
	// errPingFailed indicates the Docker daemon did not answer a liveness call.
	errPingFailed = errors.New("failed to ping Docker daemon")
	// errListContainersFailed indicates a failure to list containers from the Docker host.
	errListContainersFailed = errors.New("failed to list containers")
	// errInspectContainerFailed indicates a failure to inspect a container's details.
	errInspectContainerFailed = errors.New("failed to inspect container")
	// errPullImageFailed indicates a failure to pull an image from the registry.
	errPullImageFailed = errors.New("failed to pull image")
	// errReadPullResponseFailed indicates a failure to read the pull response stream.
	errReadPullResponseFailed = errors.New("failed to read pull response")
)

// Errors for probe lifecycle operations in probe.go.
var (
	// errCreateProbeFailed indicates a failure to create a verification probe container.
	errCreateProbeFailed = errors.New("failed to create probe container")
	// errStartProbeFailed indicates a failure to start a verification probe container.
	errStartProbeFailed = errors.New("failed to start probe container")
	// errRemoveProbeFailed indicates a failure to remove a verification probe container.
	errRemoveProbeFailed = errors.New("failed to remove probe container")
)

// Errors for exec operations in exec.go.
var (
	// errCreateExecFailed indicates a failure to create an exec instance in a container.
	errCreateExecFailed = errors.New("failed to create exec instance")
	// errAttachExecFailed indicates a failure to attach to an exec instance for output capture.
	errAttachExecFailed = errors.New("failed to attach to exec instance")
	// errReadExecOutputFailed indicates a failure to read output from an exec instance.
	errReadExecOutputFailed = errors.New("failed to read exec output")
	// errInspectExecFailed indicates a failure to inspect an exec instance's status.
	errInspectExecFailed = errors.New("failed to inspect exec instance")
)
