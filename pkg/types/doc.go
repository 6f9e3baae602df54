// Package types defines the shared interfaces and enumerations used across the
// docker-unattended-upgrades components: the container runtime client, the
// package upgrade prober, per-image patch statuses, per-container outcomes, the
// fleet restart decision, and monitoring severities.
package types
