package types

// ContainerReport is the read-only view of a single container's audit result.
type ContainerReport interface {
	// ID returns the container's unique identifier.
	ID() ContainerID

	// Name returns the container name.
	Name() string

	// ImageRef returns the image reference the container was audited under.
	ImageRef() string

	// Outcome returns the container's classification outcome.
	Outcome() Outcome

	// PendingPackages returns the package names still pending upgrade, if any.
	PendingPackages() []string
}

// Report is the complete result of one audit run: every container outcome in
// inventory order plus the folded fleet decision.
type Report interface {
	// All returns every container report in inventory order.
	All() []ContainerReport

	// UpToDate returns the containers whose images carried no pending upgrades.
	UpToDate() []ContainerReport

	// Scheduled returns the containers marked for restart.
	Scheduled() []ContainerReport

	// Blocked returns the containers whose images could not be fully patched.
	Blocked() []ContainerReport

	// Undetermined returns the containers whose package manager could not be probed.
	Undetermined() []ContainerReport

	// Unsupported returns the containers running an unrecognized package manager.
	Unsupported() []ContainerReport

	// Stopped returns the containers that disappeared after inventory.
	Stopped() []ContainerReport

	// Decision returns the fleet-wide restart verdict.
	Decision() Decision
}
