// Package container wraps the Docker API client behind the types.Client
// interface consumed by the audit engine: listing running containers,
// recovering original image references, pulling images, running commands
// inside containers, and managing throwaway verification probes.
package container
