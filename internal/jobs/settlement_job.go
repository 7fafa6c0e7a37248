package jobs

import (
	"context"
	"log/slog"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/wallet"
)

type ledgerSettler interface {
	Handle(ctx context.Context, cmd commands.SettleLedgerCommand) ([]wallet.SettledAccount, error)
}

// SettlementJob releases due pending earnings of one account kind. Sellers and couriers
// run on separate cadences.
type SettlementJob struct {
	*cronJob
}

func NewSettlementJob(handler ledgerSettler, kind wallet.AccountKind, schedule string, logger *slog.Logger) *SettlementJob {
	var job *cronJob
	job = newCronJob(string(kind)+"_settlement_job", schedule, logger, func(ctx context.Context) error {
		cmd, err := commands.NewSettleLedgerCommand(kind)
		if err != nil {
			return err
		}

		settled, err := handler.Handle(ctx, cmd)
		if err != nil {
			return err
		}

		if len(settled) > 0 {
			var total int64
			for _, s := range settled {
				total += s.Amount.Int64()
			}
			job.logger.InfoContext(ctx, "Settled pending earnings", "accounts", len(settled), "amount", total)
		}
		return nil
	})
	return &SettlementJob{cronJob: job}
}
