package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderledger/internal/core/application/usecases/commands"
)

type notificationReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileNotificationsCommand) (int, error)
}

// NotificationSweepJob re-plans notifications of recently changed orders, recreating any
// that were lost between a commit and its dispatch.
type NotificationSweepJob struct {
	*cronJob
}

func NewNotificationSweepJob(
	handler notificationReconciler,
	lookback time.Duration,
	schedule string,
	logger *slog.Logger,
) *NotificationSweepJob {
	var job *cronJob
	job = newCronJob("notification_sweep_job", schedule, logger, func(ctx context.Context) error {
		cmd, err := commands.NewReconcileNotificationsCommand(lookback)
		if err != nil {
			return err
		}

		swept, err := handler.Handle(ctx, cmd)
		if err != nil {
			return err
		}
		job.logger.DebugContext(ctx, "Notification sweep finished", "orders", swept)
		return nil
	})
	return &NotificationSweepJob{cronJob: job}
}
