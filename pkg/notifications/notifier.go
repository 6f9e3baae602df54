// Package notifications delivers audit verdicts to shoutrrr-compatible
// services (Slack, email, gotify, ...). Notifications are best-effort: a
// delivery failure never changes the run's severity.
package notifications

import (
	"fmt"
	"log"
	"strings"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/sirupsen/logrus"

	"github.com/Gijutsu/docker-unattended-upgrades/pkg/types"
)

// notificationTitle labels delivered messages.
const notificationTitle = "docker-unattended-upgrades"

// Notifier sends audit results to the configured service URLs. A notifier
// with no URLs is valid and silently does nothing.
type Notifier struct {
	router *router.ServiceRouter
}

// NewNotifier builds a notifier for the given shoutrrr URLs. Invalid URLs
// disable notifications with a warning rather than failing the audit.
func NewNotifier(urls []string) *Notifier {
	if len(urls) == 0 {
		return &Notifier{}
	}

	sender, err := shoutrrr.NewSender(log.New(logrus.StandardLogger().Writer(), "", 0), urls...)
	if err != nil {
		logrus.WithError(err).Warn("Failed to initialize notifications, continuing without them")

		return &Notifier{}
	}

	return &Notifier{router: sender}
}

// SendReport delivers a summary of a completed audit. Only verdicts that need
// operator attention (restart or blocked) are sent.
func (n *Notifier) SendReport(report types.Report) {
	if n == nil || n.router == nil || report.Decision() == types.DecisionNoRestart {
		return
	}

	n.send(summarize(report))
}

// SendAbort delivers an abort notification with the failing severity.
func (n *Notifier) SendAbort(abort *types.AbortError) {
	if n == nil || n.router == nil {
		return
	}

	n.send(fmt.Sprintf("audit aborted (%s): %s", abort.Severity.String(), abort.Error()))
}

// send delivers one message, logging any per-service failures.
func (n *Notifier) send(message string) {
	params := &shoutrrrTypes.Params{"title": notificationTitle}

	for _, err := range n.router.Send(message, params) {
		if err != nil {
			logrus.WithError(err).Warn("Failed to send notification")
		}
	}
}

// summarize renders a report into a single notification message.
func summarize(report types.Report) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "fleet decision: %s\n", report.Decision().String())

	for _, c := range report.Scheduled() {
		fmt.Fprintf(&builder, "restart scheduled: %s (%s)\n", c.Name(), c.ImageRef())
	}

	for _, c := range report.Blocked() {
		fmt.Fprintf(&builder, "restart blocked: %s (%s), pending: %s\n",
			c.Name(), c.ImageRef(), strings.Join(c.PendingPackages(), ", "))
	}

	return strings.TrimSpace(builder.String())
}
