package actions_test

import (
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/Gijutsu/docker-unattended-upgrades/internal/actions"
	"github.com/Gijutsu/docker-unattended-upgrades/internal/actions/mocks"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/session"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// scriptUpToDate makes the prober report a patched image for the container.
func scriptUpToDate(prober *mocks.MockProber, id types.ContainerID) {
	prober.DetectResults[id] = true
	prober.CheckResults[id] = types.UpgradeCheck{Pending: false}
}

// scriptUpdated makes the container's image carry pending upgrades and its
// post-fetch probe come back clean.
func scriptUpdated(prober *mocks.MockProber, id types.ContainerID, image string, packages ...string) {
	prober.DetectResults[id] = true
	prober.CheckResults[id] = types.UpgradeCheck{Pending: true, Packages: packages}
	prober.CheckResults[types.ContainerID("probe-"+image)] = types.UpgradeCheck{Pending: false}
}

// scriptUpdateNeeded makes the container's image carry pending upgrades that
// survive the fetch: the probe still reports them pending.
func scriptUpdateNeeded(prober *mocks.MockProber, id types.ContainerID, image string, packages ...string) {
	prober.DetectResults[id] = true
	prober.CheckResults[id] = types.UpgradeCheck{Pending: true, Packages: packages}
	prober.CheckResults[types.ContainerID("probe-"+image)] = types.UpgradeCheck{
		Pending:  true,
		Packages: packages,
	}
}

var _ = ginkgo.Describe("Audit", func() {
	ginkgo.When("no containers are running", func() {
		ginkgo.It("decides no-restart with an empty report", func() {
			client := mocks.CreateMockClient(&mocks.TestData{})
			prober := mocks.CreateMockProber()

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.All()).To(gomega.BeEmpty())
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionNoRestart))
		})
	})

	ginkgo.When("listing containers fails", func() {
		ginkgo.It("aborts with critical severity", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				ListError: errors.New("daemon unreachable"),
			})
			prober := mocks.CreateMockProber()

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityCritical))
		})
	})

	ginkgo.When("a single container's image has no pending upgrades", func() {
		ginkgo.It("reports ok and decides no-restart", func() {
			web := mocks.CreateMockContainer("c1", "web", "svc:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{web},
			})
			prober := mocks.CreateMockProber()
			scriptUpToDate(prober, web.ID())

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.UpToDate()).To(gomega.HaveLen(1))
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionNoRestart))
			gomega.Expect(client.TestData.PulledImages).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("a fetched image verifies as fully patched", func() {
		ginkgo.It("schedules a restart", func() {
			web := mocks.CreateMockContainer("c1", "web", "svc:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{web},
			})
			prober := mocks.CreateMockProber()
			scriptUpdated(prober, web.ID(), "svc:1.0", "libssl", "curl")

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Scheduled()).To(gomega.HaveLen(1))
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionRestart))
			gomega.Expect(client.TestData.PulledImages).To(gomega.Equal([]string{"svc:1.0"}))
			gomega.Expect(client.TestData.StartedProbes).To(gomega.Equal([]string{"svc:1.0"}))
			gomega.Expect(client.TestData.RemovedProbes).To(gomega.HaveLen(1))
		})
	})

	ginkgo.When("a fetched image still has pending upgrades", func() {
		ginkgo.It("reports the container blocked without flipping the fleet decision", func() {
			web := mocks.CreateMockContainer("c1", "web", "svc:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{web},
			})
			prober := mocks.CreateMockProber()
			scriptUpdateNeeded(prober, web.ID(), "svc:1.0", "libssl")

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Blocked()).To(gomega.HaveLen(1))
			gomega.Expect(report.Blocked()[0].PendingPackages()).
				To(gomega.Equal([]string{"libssl"}))
			// Only a later container sharing the cached status can block the fleet.
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionNoRestart))
		})
	})

	ginkgo.When("several containers share one image", func() {
		ginkgo.It("classifies the image only once", func() {
			first := mocks.CreateMockContainer("c1", "web-1", "svc:1.0")
			second := mocks.CreateMockContainer("c2", "web-2", "svc:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{first, second},
			})
			prober := mocks.CreateMockProber()
			scriptUpdated(prober, first.ID(), "svc:1.0", "libssl")

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Scheduled()).To(gomega.HaveLen(2))
			gomega.Expect(prober.CheckCallsFor(first.ID())).To(gomega.Equal(1))
			gomega.Expect(prober.CheckCallsFor(second.ID())).To(gomega.BeZero())
			gomega.Expect(client.TestData.PulledImages).To(gomega.HaveLen(1))
			gomega.Expect(client.TestData.StartedProbes).To(gomega.HaveLen(1))
		})

		ginkgo.It("blocks the fleet when a later container hits a cached update-needed status", func() {
			first := mocks.CreateMockContainer("c1", "web-1", "svc:1.0")
			second := mocks.CreateMockContainer("c2", "web-2", "svc:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{first, second},
			})
			prober := mocks.CreateMockProber()
			scriptUpdateNeeded(prober, first.ID(), "svc:1.0", "libssl")

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionBlocked))
		})
	})

	ginkgo.When("update-needed and updated images are processed in different orders", func() {
		var prober *mocks.MockProber

		blockedOne := mocks.CreateMockContainer("a1", "api-1", "api:2.0")
		blockedTwo := mocks.CreateMockContainer("a2", "api-2", "api:2.0")
		updated := mocks.CreateMockContainer("b1", "web", "web:1.0")

		ginkgo.BeforeEach(func() {
			prober = mocks.CreateMockProber()
			scriptUpdateNeeded(prober, blockedOne.ID(), "api:2.0", "libssl")
			scriptUpdated(prober, updated.ID(), "web:1.0", "curl")
		})

		ginkgo.It("decides restart when the updated image comes last", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{blockedOne, blockedTwo, updated},
			})

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionRestart))
		})

		ginkgo.It("decides blocked when the cached update-needed status comes last", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{blockedOne, updated, blockedTwo},
			})

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionBlocked))
		})

		ginkgo.It("keeps blocked dominant under the conservative policy regardless of order", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{blockedOne, blockedTwo, updated},
			})

			report, err := actions.Audit(client, prober, actions.Params{
				Policy: session.BlockedDominates,
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionBlocked))
		})
	})

	ginkgo.When("a cached up-to-date result follows a restart decision", func() {
		ginkgo.It("does not reset the decision", func() {
			updated := mocks.CreateMockContainer("b1", "web", "web:1.0")
			fresh := mocks.CreateMockContainer("c1", "db", "db:3.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{updated, fresh},
			})
			prober := mocks.CreateMockProber()
			scriptUpdated(prober, updated.ID(), "web:1.0", "curl")
			scriptUpToDate(prober, fresh.ID())

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionRestart))
		})
	})

	ginkgo.When("a container runs on a bare content address", func() {
		ginkgo.It("marks it untagged via inspection and schedules a restart", func() {
			stale := mocks.CreateMockContainer("c1", "stale", "3f4e5d6a7b8c")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers:  []types.Container{stale},
				InspectRefs: map[types.ContainerID]string{stale.ID(): "svc:1.2"},
			})
			prober := mocks.CreateMockProber()

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Scheduled()).To(gomega.HaveLen(1))
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionRestart))
			gomega.Expect(client.TestData.PulledImages).To(gomega.BeEmpty())
			gomega.Expect(prober.CheckCalls).To(gomega.BeEmpty())
		})

		ginkgo.It("aborts critical when the original reference cannot be recovered", func() {
			stale := mocks.CreateMockContainer("c1", "stale", "3f4e5d6a7b8c")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{stale},
			})
			prober := mocks.CreateMockProber()

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityCritical))
		})

		ginkgo.It("aborts critical when the inspection call itself fails", func() {
			stale := mocks.CreateMockContainer("c1", "stale", "3f4e5d6a7b8c")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers:   []types.Container{stale},
				InspectRefs:  map[types.ContainerID]string{stale.ID(): "svc:1.2"},
				InspectError: errors.New("API version mismatch"),
			})
			prober := mocks.CreateMockProber()

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityCritical))
			gomega.Expect(abort.Error()).To(gomega.ContainSubstring("API version mismatch"))
		})
	})

	ginkgo.When("the package manager cannot be probed", func() {
		ginkgo.It("reports manager-undetermined and continues", func() {
			opaque := mocks.CreateMockContainer("c1", "opaque", "scratch-app:1.0")
			fresh := mocks.CreateMockContainer("c2", "db", "db:3.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{opaque, fresh},
			})
			prober := mocks.CreateMockProber()
			prober.DetectErrors[opaque.ID()] = errors.New("exec create failed")
			scriptUpToDate(prober, fresh.ID())

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Undetermined()).To(gomega.HaveLen(1))
			gomega.Expect(report.UpToDate()).To(gomega.HaveLen(1))
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionNoRestart))
		})
	})

	ginkgo.When("the package manager is unrecognized", func() {
		ginkgo.It("reports unsupported-image for a still-running container", func() {
			alpine := mocks.CreateMockContainer("c1", "alpine-app", "alpine-app:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers: []types.Container{alpine},
			})
			prober := mocks.CreateMockProber()
			prober.DetectResults[alpine.ID()] = false

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Unsupported()).To(gomega.HaveLen(1))
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionNoRestart))
		})

		ginkgo.It("reports stopped-since-scan for a container gone from a fresh listing", func() {
			ephemeral := mocks.CreateMockContainer("c1", "ephemeral", "job:1.0")
			client := mocks.CreateMockClient(&mocks.TestData{
				Containers:        []types.Container{ephemeral},
				StoppedContainers: map[string]bool{"ephemeral": true},
			})
			prober := mocks.CreateMockProber()
			prober.DetectResults[ephemeral.ID()] = false

			report, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Stopped()).To(gomega.HaveLen(1))
			gomega.Expect(report.Decision()).To(gomega.Equal(types.DecisionNoRestart))
		})
	})
})
