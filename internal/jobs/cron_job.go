package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderledger/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// cronJob runs one task on a cron schedule. Schedules use the six-field form with
// seconds, or descriptors such as "@every 5m".
type cronJob struct {
	name     string
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
	task     func(ctx context.Context) error
}

func newCronJob(name, schedule string, logger *slog.Logger, task func(ctx context.Context) error) *cronJob {
	return &cronJob{
		name:     name,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", name),
		task:     task,
	}
}

// Start registers the task and starts the scheduler.
func (j *cronJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { _ = j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running task to return.
func (j *cronJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Job stopped")
}

// RunOnce executes the task immediately, outside the schedule.
func (j *cronJob) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if err := j.task(ctx); err != nil {
		metrics.JobRunsTotal.WithLabelValues(j.name, metrics.ResultFailed).Inc()
		j.logger.ErrorContext(ctx, "Job failed", "error", err)
		return err
	}

	metrics.JobRunsTotal.WithLabelValues(j.name, metrics.ResultOK).Inc()
	return nil
}
