package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

const (
	reconcileJobName   = "registration-status-reconciler"
	defaultInterval    = 15 * time.Minute
	defaultJobDeadline = time.Minute
)

// RegistrationRefresher recomputes cached registration statuses and reports
// how many events changed.
type RegistrationRefresher interface {
	RefreshRegistrationStatuses(ctx context.Context) (int, error)
}

// Reconciler periodically refreshes registration statuses so an idle portal
// does not show stale windows. Reads still refresh lazily without it.
type Reconciler struct {
	scheduler gocron.Scheduler
	refresher RegistrationRefresher
	logger    *logging.Logger
	interval  time.Duration
}

func NewReconciler(refresher RegistrationRefresher, interval time.Duration, logger *logging.Logger) (*Reconciler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = defaultInterval
	}

	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked", "job_id", jobID.String(), "job_name", jobName, "panic", recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	r := &Reconciler{
		scheduler: sched,
		refresher: refresher,
		logger:    logger,
		interval:  interval,
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.RunOnce, context.Background()),
		gocron.WithName(reconcileJobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	return r, nil
}

func (r *Reconciler) Start() {
	r.logger.Info("registration reconciler starting", "interval", r.interval.String())
	r.scheduler.Start()
}

func (r *Reconciler) Stop() error {
	return r.scheduler.Shutdown()
}

// RunOnce performs a single reconciliation pass.
func (r *Reconciler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, defaultJobDeadline)
	defer cancel()

	start := time.Now()
	changed, err := r.refresher.RefreshRegistrationStatuses(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "registration reconcile failed", "error", err)
		return
	}
	r.logger.InfoContext(ctx, "registration reconcile finished",
		"changed", changed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
