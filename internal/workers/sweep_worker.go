package workers

import (
	"context"

	"github.com/robfig/cron/v3"

	"payalert_backend/internal/logger"
	"payalert_backend/internal/services"
)

// Cron expressions for the two background sweeps.
const (
	EscalationSchedule = "0 * * * *" // hourly, on the hour
	ScheduledSchedule  = "* * * * *" // every minute
)

// SweepWorker runs the SLA escalation and scheduled-delivery sweeps on a
// cron scheduler.
type SweepWorker struct {
	escalation services.EscalationService
	schedule   services.ScheduleService
	demo       bool

	cron *cron.Cron
}

func NewSweepWorker(escalation services.EscalationService, schedule services.ScheduleService, demo bool) *SweepWorker {
	return &SweepWorker{
		escalation: escalation,
		schedule:   schedule,
		demo:       demo,
		cron:       cron.New(),
	}
}

// Start registers the sweeps and runs the scheduler until ctx is cancelled.
// Sweeps are idempotent, so an overrunning tick overlapping the next one is
// harmless.
func (w *SweepWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(EscalationSchedule, func() {
		if _, err := w.escalation.EscalateOverdue(ctx, w.demo); err != nil {
			logger.SweepLog("escalation", 0, err)
		}
	}); err != nil {
		return err
	}

	if _, err := w.cron.AddFunc(ScheduledSchedule, func() {
		if _, err := w.schedule.DispatchDue(ctx); err != nil {
			logger.SweepLog("scheduled_dispatch", 0, err)
		}
	}); err != nil {
		return err
	}

	w.cron.Start()
	logger.Info("Sweep worker started",
		"escalation_schedule", EscalationSchedule,
		"scheduled_schedule", ScheduledSchedule,
		"demo", w.demo)

	go func() {
		<-ctx.Done()
		stopCtx := w.cron.Stop()
		<-stopCtx.Done()
		logger.Info("Sweep worker stopped")
	}()

	return nil
}
