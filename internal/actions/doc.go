// Package actions implements the audit engine: inventory classification of
// running containers, per-image update classification with patch
// verification, and the order-dependent fold of container outcomes into the
// fleet restart decision.
package actions
