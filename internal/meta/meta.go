// Package meta holds build-time metadata about the binary.
package meta

// Version is the probe version. It is overridden at build time via
// -ldflags "-X github.com/Gijutsu/docker-unattended-upgrades/internal/meta.Version=vX.Y.Z".
var Version = "v0.0.0-unknown"
