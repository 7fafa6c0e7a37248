package commands

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/pkg/errs"
)

// RequestWithdrawalCommandHandler debits the available balance only; pending earnings
// cannot be withdrawn.
type RequestWithdrawalCommandHandler struct {
	uowFactory LedgerUoWFactory
	notifier   Notifier
}

func NewRequestWithdrawalCommandHandler(uowFactory LedgerUoWFactory, notifier Notifier) RequestWithdrawalCommandHandler {
	return RequestWithdrawalCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the balance after the withdrawal. An account that was never opened has
// nothing to withdraw.
func (h RequestWithdrawalCommandHandler) Handle(ctx context.Context, cmd RequestWithdrawalCommand) (wallet.Balance, error) {
	if err := cmd.Validate(); err != nil {
		return wallet.Balance{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return wallet.Balance{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledgerRepo := uow.LedgerRepository()
	account, err := ledgerRepo.GetAccount(ctx, cmd.AccountID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return wallet.Balance{}, errs.NewInsufficientFundsError(cmd.AccountID().String(), cmd.Amount().Int64(), 0)
	}
	if err != nil {
		return wallet.Balance{}, err
	}

	entry, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID:   cmd.AccountID(),
		AccountKind: account.Kind(),
		Type:        wallet.TypeWithdrawal,
		Amount:      cmd.Amount().Neg(),
		Description: "withdrawal",
	}, time.Now())
	if err != nil {
		return wallet.Balance{}, err
	}

	balance, err := postAndRead(ctx, ledgerRepo, entry)
	if err != nil {
		return wallet.Balance{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return wallet.Balance{}, err
	}

	h.notifier.LedgerAdjusted(ctx, entry)

	return balance, nil
}
