package session

import (
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// DecisionPolicy merges the current fleet decision with a newly proposed one.
//
// The policy is only consulted when a container actually proposes a decision
// (restart or blocked); an up-to-date container never touches the fold.
type DecisionPolicy func(current, proposed types.Decision) types.Decision

// LastWriteWins is the default policy: the proposed decision overwrites the
// current one unconditionally, so the final verdict reflects the last
// restart- or blocked-proposing container in inventory order. This reproduces
// the established behavior of the probe and is deliberately not a worst-case
// merge.
func LastWriteWins(_, proposed types.Decision) types.Decision {
	return proposed
}

// BlockedDominates is the conservative alternative: once any container reports
// blocked, the verdict stays blocked regardless of later restart proposals.
// Not enabled by default; it exists so the policy can be changed in one place.
func BlockedDominates(current, proposed types.Decision) types.Decision {
	if current == types.DecisionBlocked {
		return current
	}

	return proposed
}
