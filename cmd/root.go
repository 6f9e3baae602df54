// Package cmd contains the command-line interface definitions and execution
// logic for the audit probe. It wires flag parsing, the Docker client, the apt
// prober, the audit engine, notifications and metrics together, and maps the
// terminal state of a run onto a monitoring exit code.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Gijutsu/docker-unattended-upgrades/internal/actions"
	"github.com/Gijutsu/docker-unattended-upgrades/internal/flags"
	"github.com/Gijutsu/docker-unattended-upgrades/internal/meta"
	"github.com/Gijutsu/docker-unattended-upgrades/internal/scheduling"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/apt"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/container"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/metrics"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/notifications"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/restart"
	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// rootCmd is the root command instance, configured during package
// initialization and executed from main.
var rootCmd = NewRootCommand()

// scheduleSpec holds the cron-formatted schedule string. When empty the probe
// runs a single audit and exits; otherwise it keeps running audits on the
// schedule until interrupted.
var scheduleSpec string

// metricsFile is the path Prometheus textfile-collector metrics are written to
// after each audit, or empty when metrics are disabled.
var metricsFile string

// notifier delivers audit verdicts to the configured shoutrrr URLs.
var notifier *notifications.Notifier

// runtimeInstalled and newClient are indirections over the container package
// so the pre-flight checks can run against doubles instead of a Docker host.
var (
	runtimeInstalled = container.RuntimeInstalled
	newClient        = container.NewClient
)

// NewRootCommand creates the root command with its usage text and argument
// contract: exactly two positional arguments, the restart mode and the restart
// target.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "docker-unattended-upgrades [flags] RESTART_MODE RESTART_TARGET",
		Short: "Audits running Docker containers for pending OS-package security updates",
		Long: "\nAudits every running container for outstanding OS-package security updates,\n" +
			"pulls and verifies patched images, and restarts the fleet through the given\n" +
			"restart mode (systemctl, service or compose) when patched images are in place.\n" +
			"Exits with monitoring-plugin severities: 0 ok, 1 warning, 2 critical, 3 unknown.",
		Version: meta.Version,
		PreRun:  preRun,
		Run:     run,
		Args:    cobra.ExactArgs(2),
	}
}

// init registers command-line flags for the root command during package
// initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterDockerFlags(rootCmd)
	flags.RegisterSystemFlags(rootCmd)
}

// Execute runs the root command. Usage and flag errors terminate the process
// with the unknown severity so that schedulers treating this binary as a
// monitoring check never mistake a misconfiguration for a clean result.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exit(types.SeverityUnknown, err.Error())
	}
}

// preRun configures logging, the Docker environment, and the reporting
// collaborators before the audit itself starts.
func preRun(cmd *cobra.Command, _ []string) {
	flagsSet := cmd.PersistentFlags()

	if err := flags.SetupLogging(flagsSet); err != nil {
		exit(types.SeverityUnknown, "failed to initialize logging: "+err.Error())
	}

	if err := flags.EnvConfig(cmd); err != nil {
		exit(types.SeverityUnknown, "failed to configure Docker environment: "+err.Error())
	}

	scheduleSpec, _ = flagsSet.GetString("schedule")
	metricsFile, _ = flagsSet.GetString("metrics-file")

	urls, _ := flagsSet.GetStringSlice("notification-url")
	notifier = notifications.NewNotifier(urls)
}

// run executes the audit flow: pre-flight checks, then a single audit or the
// scheduled loop, then process termination with the mapped severity.
func run(_ *cobra.Command, args []string) {
	mode, err := restart.ParseMode(args[0])
	if err != nil {
		exit(types.SeverityUnknown, fmt.Sprintf("invalid restart mode %q, expected systemctl, service or compose", args[0]))
	}

	target := args[1]

	if scheduleSpec == "" {
		severity, message := runAudit(mode, target)
		exit(severity, message)
	}

	if err := scheduling.RunAuditsOnSchedule(context.Background(), scheduleSpec, func() {
		severity, message := runAudit(mode, target)
		printStatus(severity, message)
	}); err != nil {
		exit(types.SeverityUnknown, err.Error())
	}

	os.Exit(types.SeverityOK.ExitCode())
}

// runAudit performs one complete audit run and maps its terminal state to a
// severity and status line. It never exits the process itself, so the
// scheduled mode can keep running after any outcome.
//
// Pre-flight order: a host without the runtime has nothing to audit and no
// other collaborator is touched; a host whose daemon does not answer a basic
// liveness call is critical before any classification starts.
func runAudit(mode restart.Mode, target string) (types.Severity, string) {
	if !runtimeInstalled() {
		return types.SeverityOK, "docker runtime not installed, nothing to audit"
	}

	client, err := newClient()
	if err != nil {
		return types.SeverityCritical, "could not initialize docker client: " + err.Error()
	}

	if err := client.Ping(); err != nil {
		return types.SeverityCritical, "docker runtime did not respond: " + err.Error()
	}

	report, err := actions.Audit(client, apt.NewProber(client), actions.Params{})
	if err != nil {
		return abortSeverity(err)
	}

	flushMetrics(report)
	notifier.SendReport(report)

	return resolveSeverity(report, func() error {
		return restart.NewExecutor().Restart(mode, target)
	})
}

// abortSeverity maps an audit error onto its exit severity. Errors that are
// not aborts indicate a logic defect and fall back to unknown.
func abortSeverity(err error) (types.Severity, string) {
	if abort, ok := types.AsAbort(err); ok {
		notifier.SendAbort(abort)

		return abort.Severity, abort.Error()
	}

	return types.SeverityUnknown, "unexpected audit failure: " + err.Error()
}

// resolveSeverity maps the fleet decision of a completed audit onto a severity,
// invoking restartFn when the decision calls for a restart. A failing restart
// command is reported but does not change the severity: the patched images are
// in place and the next scheduled run will retry.
func resolveSeverity(report types.Report, restartFn func() error) (types.Severity, string) {
	switch report.Decision() {
	case types.DecisionNoRestart:
		return types.SeverityOK, fmt.Sprintf(
			"all %d running containers have up-to-date base images, no restart needed",
			len(report.All()))
	case types.DecisionRestart:
		if err := restartFn(); err != nil {
			logrus.WithError(err).Warn("Restart command failed, patched images remain staged")
		}

		return types.SeverityOK, fmt.Sprintf(
			"%d of %d containers had updated base images, restart performed",
			len(report.Scheduled()), len(report.All()))
	case types.DecisionBlocked:
		return types.SeverityWarning, "restart blocked, images with pending upgrades: " +
			strings.Join(blockedImages(report), ", ")
	default:
		return types.SeverityUnknown, fmt.Sprintf("unexpected fleet decision value %d", report.Decision())
	}
}

// blockedImages lists the distinct image references whose containers blocked
// the restart, in report order.
func blockedImages(report types.Report) []string {
	seen := make(map[string]bool)

	var refs []string

	for _, c := range report.Blocked() {
		if !seen[c.ImageRef()] {
			seen[c.ImageRef()] = true

			refs = append(refs, c.ImageRef())
		}
	}

	return refs
}

// flushMetrics writes the textfile-collector metrics when a path is
// configured. Metrics failures never affect the audit result.
func flushMetrics(report types.Report) {
	if metricsFile == "" {
		return
	}

	if err := metrics.WriteTextfile(metricsFile, metrics.NewMetric(report)); err != nil {
		logrus.WithError(err).WithField("path", metricsFile).Warn("Failed to write metrics textfile")
	}
}

// printStatus writes the final status line with its severity prefix.
func printStatus(severity types.Severity, message string) {
	fmt.Fprintf(os.Stdout, "%s %s\n", severity.Prefix(), message)
}

// exit prints the final status line and terminates the process with the
// severity's exit code. It is the single place the process exits from.
func exit(severity types.Severity, message string) {
	printStatus(severity, message)
	os.Exit(severity.ExitCode())
}
