package mocks

import (
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// MockProber scripts per-target detection and upgrade-check results. Targets
// are keyed by container ID; probe containers started by MockClient carry the
// deterministic ID "probe-<image>".
type MockProber struct {
	DetectResults map[types.ContainerID]bool               // Detection answers per target.
	DetectErrors  map[types.ContainerID]error              // Detection failures per target.
	CheckResults  map[types.ContainerID]types.UpgradeCheck // Check answers per target.
	CheckErrors   map[types.ContainerID]error              // Check failures per target.

	CheckCalls []types.ContainerID // Every target Check was invoked for, in order.
}

// CreateMockProber constructs an empty prober double; tests fill in the
// scripted results they need.
func CreateMockProber() *MockProber {
	return &MockProber{
		DetectResults: map[types.ContainerID]bool{},
		DetectErrors:  map[types.ContainerID]error{},
		CheckResults:  map[types.ContainerID]types.UpgradeCheck{},
		CheckErrors:   map[types.ContainerID]error{},
	}
}

// Name identifies the mock prober.
func (p *MockProber) Name() string {
	return "mock"
}

// Detect answers from the scripted detection results.
func (p *MockProber) Detect(target types.ContainerID) (bool, error) {
	if err := p.DetectErrors[target]; err != nil {
		return false, err
	}

	return p.DetectResults[target], nil
}

// Check answers from the scripted check results, recording the call.
func (p *MockProber) Check(target types.ContainerID) (types.UpgradeCheck, error) {
	p.CheckCalls = append(p.CheckCalls, target)

	if err := p.CheckErrors[target]; err != nil {
		return types.UpgradeCheck{}, err
	}

	return p.CheckResults[target], nil
}

// CheckCallsFor counts how many times Check ran against a target.
func (p *MockProber) CheckCallsFor(target types.ContainerID) int {
	count := 0

	for _, call := range p.CheckCalls {
		if call == target {
			count++
		}
	}

	return count
}
