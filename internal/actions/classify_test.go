package actions_test

import (
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/Gijutsu/docker-unattended-upgrades/internal/actions"
	"github.com/Gijutsu/docker-unattended-upgrades/internal/actions/mocks"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

var _ = ginkgo.Describe("image classification", func() {
	var (
		web    *mocks.MockContainer
		client *mocks.MockClient
		prober *mocks.MockProber
	)

	ginkgo.BeforeEach(func() {
		web = mocks.CreateMockContainer("c1", "web", "svc:1.0")
		client = mocks.CreateMockClient(&mocks.TestData{
			Containers: []types.Container{web},
		})
		prober = mocks.CreateMockProber()
	})

	ginkgo.When("the upgrade check itself fails", func() {
		ginkgo.It("aborts with warning severity naming the container", func() {
			prober.DetectResults[web.ID()] = true
			prober.CheckErrors[web.ID()] = errors.New("repository fetch failed")

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityWarning))
			gomega.Expect(abort.Message).To(gomega.ContainSubstring("web"))
		})
	})

	ginkgo.When("the image fetch fails", func() {
		ginkgo.It("aborts with warning severity and never schedules a restart", func() {
			prober.DetectResults[web.ID()] = true
			prober.CheckResults[web.ID()] = types.UpgradeCheck{
				Pending:  true,
				Packages: []string{"libssl"},
			}
			client.TestData.PullError = errors.New("manifest unknown")

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityWarning))
			gomega.Expect(abort.Error()).To(gomega.ContainSubstring("manifest unknown"))
			gomega.Expect(client.TestData.StartedProbes).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("the verification probe cannot be started", func() {
		ginkgo.It("aborts with unknown severity", func() {
			prober.DetectResults[web.ID()] = true
			prober.CheckResults[web.ID()] = types.UpgradeCheck{
				Pending:  true,
				Packages: []string{"libssl"},
			}
			client.TestData.StartProbeError = errors.New("image has no sleep binary")

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityUnknown))
		})
	})

	ginkgo.When("the probe check returns an unusable result", func() {
		ginkgo.It("aborts with unknown severity and still tears the probe down", func() {
			prober.DetectResults[web.ID()] = true
			prober.CheckResults[web.ID()] = types.UpgradeCheck{
				Pending:  true,
				Packages: []string{"libssl"},
			}
			prober.CheckErrors["probe-svc:1.0"] = errors.New("garbled output")

			_, err := actions.Audit(client, prober, actions.Params{})

			abort, ok := types.AsAbort(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(abort.Severity).To(gomega.Equal(types.SeverityUnknown))
			gomega.Expect(client.TestData.RemovedProbes).
				To(gomega.Equal([]types.ContainerID{"probe-svc:1.0"}))
		})
	})

	ginkgo.When("the probe completes", func() {
		ginkgo.It("tears the probe down exactly once on a clean result", func() {
			prober.DetectResults[web.ID()] = true
			prober.CheckResults[web.ID()] = types.UpgradeCheck{
				Pending:  true,
				Packages: []string{"libssl"},
			}
			prober.CheckResults["probe-svc:1.0"] = types.UpgradeCheck{Pending: false}

			_, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(client.TestData.RemovedProbes).
				To(gomega.Equal([]types.ContainerID{"probe-svc:1.0"}))
		})

		ginkgo.It("tears the probe down exactly once on a still-pending result", func() {
			prober.DetectResults[web.ID()] = true
			prober.CheckResults[web.ID()] = types.UpgradeCheck{
				Pending:  true,
				Packages: []string{"libssl"},
			}
			prober.CheckResults["probe-svc:1.0"] = types.UpgradeCheck{
				Pending:  true,
				Packages: []string{"libssl"},
			}

			_, err := actions.Audit(client, prober, actions.Params{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(client.TestData.RemovedProbes).
				To(gomega.Equal([]types.ContainerID{"probe-svc:1.0"}))
		})
	})
})
