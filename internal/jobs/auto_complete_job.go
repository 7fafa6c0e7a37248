package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderledger/internal/core/application/usecases/commands"
)

type ordersAutoCompleter interface {
	Handle(ctx context.Context, cmd commands.AutoCompleteOrdersCommand) (int, error)
}

const autoCompleteBatch = 100

// AutoCompleteJob completes delivered orders that the buyer did not confirm within after.
type AutoCompleteJob struct {
	*cronJob
}

func NewAutoCompleteJob(handler ordersAutoCompleter, after time.Duration, schedule string, logger *slog.Logger) *AutoCompleteJob {
	var job *cronJob
	job = newCronJob("auto_complete_job", schedule, logger, func(ctx context.Context) error {
		cmd, err := commands.NewAutoCompleteOrdersCommand(after, autoCompleteBatch)
		if err != nil {
			return err
		}

		completed, err := handler.Handle(ctx, cmd)
		if completed > 0 {
			job.logger.InfoContext(ctx, "Auto-completed delivered orders", "count", completed)
		}
		return err
	})
	return &AutoCompleteJob{cronJob: job}
}
