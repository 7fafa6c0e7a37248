package commands

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/wallet"
)

// SettleLedgerCommandHandler moves due entries from pending to available and tells each
// account owner once per sweep.
type SettleLedgerCommandHandler struct {
	uowFactory LedgerUoWFactory
	notifier   Notifier
}

func NewSettleLedgerCommandHandler(uowFactory LedgerUoWFactory, notifier Notifier) SettleLedgerCommandHandler {
	return SettleLedgerCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns one summary per account that had entries settled.
func (h SettleLedgerCommandHandler) Handle(ctx context.Context, cmd SettleLedgerCommand) ([]wallet.SettledAccount, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlements, err := uow.LedgerRepository().SettleDue(ctx, cmd.Kind(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	settled := wallet.SummarizeSettlements(cmd.Kind(), settlements)
	if len(settled) > 0 {
		h.notifier.EntriesSettled(ctx, settled)
	}

	return settled, nil
}
