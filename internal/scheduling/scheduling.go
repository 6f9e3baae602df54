// Package scheduling runs periodic audits from a cron specification and
// ensures graceful shutdown of scheduled operations.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// errScheduleFailed indicates the cron specification could not be scheduled.
var errScheduleFailed = errors.New("failed to schedule audits")

// WaitForRunningAudit waits for a currently running audit to complete before
// proceeding with shutdown. It checks the lock channel status and blocks with
// a timeout if an audit is in progress.
func WaitForRunningAudit(ctx context.Context, lock chan bool) {
	const auditWaitTimeout = 60 * time.Second

	logrus.Debug("Checking lock status before shutdown")

	if len(lock) == 0 {
		select {
		case <-lock:
			logrus.Debug("Lock acquired, audit finished")
		case <-time.After(auditWaitTimeout):
			logrus.Warn("Timeout waiting for running audit to finish, proceeding with shutdown")
		case <-ctx.Done():
			logrus.Warn("Context cancelled while waiting for running audit")
		}
	} else {
		logrus.Debug("No audit running, lock available")
	}
}

// RunAuditsOnSchedule executes audit periodically according to the cron
// specification, running the first audit immediately. Overlapping runs are
// prevented with a lock channel; a tick that arrives while an audit is still
// in progress is skipped. The function blocks until ctx is cancelled or an
// interrupt signal (SIGINT, SIGTERM) arrives, then stops the scheduler, waits
// for any running audit and returns.
func RunAuditsOnSchedule(ctx context.Context, scheduleSpec string, audit func()) error {
	lock := make(chan bool, 1)
	lock <- true

	scheduler := cron.New()

	auditFunc := func() {
		select {
		case v := <-lock:
			defer func() { lock <- v }()

			audit()
			logrus.Debug("Audit run completed")
		default:
			logrus.Debug("Skipped audit, another run still in progress")
		}

		if entries := scheduler.Entries(); len(entries) > 0 {
			logrus.WithField("next_run", entries[0].Next.String()).Debug("Scheduled next audit")
		}
	}

	if err := scheduler.AddFunc(scheduleSpec, auditFunc); err != nil {
		return fmt.Errorf("%w: %w", errScheduleFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"schedule":  scheduleSpec,
		"first_run": scheduler.Entries()[0].Schedule.Next(time.Now()).String(),
	}).Info("Starting scheduled audits")

	auditFunc()

	scheduler.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logrus.Debug("Context canceled, stopping scheduler")
	case <-interrupt:
		logrus.Debug("Received interrupt signal, stopping scheduler")
	}

	scheduler.Stop()
	WaitForRunningAudit(ctx, lock)

	logrus.Debug("Scheduler stopped")

	return nil
}
