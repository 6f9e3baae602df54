// Package session holds the per-run mutable state of an audit: the image
// status cache, the ordered container statuses, and the decision policy used
// to fold per-container outcomes into the fleet verdict. Everything here is
// rebuilt fresh on every run; nothing is persisted.
package session
