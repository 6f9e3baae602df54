// Package metrics exports audit results in Prometheus text format, suitable
// for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// Metric carries the per-outcome container counts and the fleet decision of
// one audit run.
type Metric struct {
	Total        int
	UpToDate     int
	Scheduled    int
	Blocked      int
	Undetermined int
	Unsupported  int
	Stopped      int
	Decision     types.Decision
}

// NewMetric counts a report's outcomes into a Metric.
func NewMetric(report types.Report) *Metric {
	return &Metric{
		Total:        len(report.All()),
		UpToDate:     len(report.UpToDate()),
		Scheduled:    len(report.Scheduled()),
		Blocked:      len(report.Blocked()),
		Undetermined: len(report.Undetermined()),
		Unsupported:  len(report.Unsupported()),
		Stopped:      len(report.Stopped()),
		Decision:     report.Decision(),
	}
}

// WriteTextfile renders the metric to path in Prometheus text format,
// replacing any previous contents atomically.
func WriteTextfile(path string, metric *Metric) error {
	registry := prometheus.NewRegistry()

	containers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "duu_containers",
		Help: "Number of audited containers by outcome.",
	}, []string{"outcome"})

	decision := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "duu_fleet_decision",
		Help: "Fleet restart decision of the last audit (1 for the active decision).",
	}, []string{"decision"})

	registry.MustRegister(containers, decision)

	containers.WithLabelValues("up_to_date").Set(float64(metric.UpToDate))
	containers.WithLabelValues("restart_scheduled").Set(float64(metric.Scheduled))
	containers.WithLabelValues("restart_blocked").Set(float64(metric.Blocked))
	containers.WithLabelValues("manager_undetermined").Set(float64(metric.Undetermined))
	containers.WithLabelValues("unsupported_image").Set(float64(metric.Unsupported))
	containers.WithLabelValues("stopped_since_scan").Set(float64(metric.Stopped))

	for _, d := range []types.Decision{types.DecisionNoRestart, types.DecisionRestart, types.DecisionBlocked} {
		value := 0.0
		if d == metric.Decision {
			value = 1.0
		}

		decision.WithLabelValues(d.String()).Set(value)
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	logrus.WithField("path", path).Debug("Wrote metrics textfile")

	return nil
}
