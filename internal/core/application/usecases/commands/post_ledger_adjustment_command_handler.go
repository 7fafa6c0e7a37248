package commands

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"
)

// PostLedgerAdjustmentCommandHandler posts operator top-ups and deductions. A deduction
// beyond the available balance fails with InsufficientFunds and writes nothing.
type PostLedgerAdjustmentCommandHandler struct {
	uowFactory LedgerUoWFactory
	notifier   Notifier
}

func NewPostLedgerAdjustmentCommandHandler(uowFactory LedgerUoWFactory, notifier Notifier) PostLedgerAdjustmentCommandHandler {
	return PostLedgerAdjustmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the account balance after the posting.
func (h PostLedgerAdjustmentCommandHandler) Handle(
	ctx context.Context,
	cmd PostLedgerAdjustmentCommand,
) (wallet.Balance, error) {
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
	kind, err := resolveKind(ctx, ledgerRepo, cmd.AccountID(), cmd.AccountKind())
	if err != nil {
		return wallet.Balance{}, err
	}

	entry, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID:   cmd.AccountID(),
		AccountKind: kind,
		OrderID:     cmd.OrderID(),
		Type:        cmd.EntryType(),
		Amount:      cmd.Amount(),
		Description: cmd.Description(),
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

// resolveKind returns the stored kind of an existing account, or requested for a new one.
func resolveKind(
	ctx context.Context,
	repo ports.LedgerRepository,
	accountID kernel.UUID,
	requested wallet.AccountKind,
) (wallet.AccountKind, error) {
	account, err := repo.GetAccount(ctx, accountID)
	switch {
	case err == nil:
		return account.Kind(), nil
	case errors.Is(err, errs.ErrObjectNotFound) && requested != "":
		return requested, nil
	case errors.Is(err, errs.ErrObjectNotFound):
		return "", errs.NewValueIsRequiredErrorWithCause("accountKind", err)
	default:
		return "", err
	}
}

func postAndRead(
	ctx context.Context,
	repo ports.LedgerRepository,
	entry *wallet.Entry,
) (wallet.Balance, error) {
	if err := repo.Post(ctx, entry); err != nil {
		return wallet.Balance{}, err
	}
	account, err := repo.GetAccount(ctx, entry.AccountID())
	if err != nil {
		return wallet.Balance{}, err
	}
	return account.Balance(), nil
}
