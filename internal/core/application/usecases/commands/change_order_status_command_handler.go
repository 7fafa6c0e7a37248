package commands

import (
	"context"
	"slices"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler applies order transitions.
//
// Business rules:
//   - the expected version must equal the stored version, otherwise VersionConflict
//   - a repeat of the terminal transition that produced the current state succeeds
//     without touching the order, the ledger or any inbox
//   - completion posts the commission split in the same transaction as the order update;
//     a failed posting rolls the transition back
//   - postings lock their accounts in ascending account id order, so concurrent
//     completions sharing accounts cannot deadlock
//   - notifications are sent after commit and never fail the transition
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderLedgerUoWFactory
	policy     services.CommissionPolicy
	notifier   Notifier
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderLedgerUoWFactory,
	policy services.CommissionPolicy,
	notifier Notifier,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		notifier:   notifier,
	}
}

// Handle returns the order as stored after the command.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if isReplay(o, cmd) {
		return o, nil
	}

	if o.Version() != cmd.ExpectedVersion() {
		return nil, errs.NewVersionConflictError("order", o.ID().String(), cmd.ExpectedVersion(), o.Version())
	}

	now := time.Now().UTC()
	change, err := o.Transition(order.TransitionRequest{
		Role:      cmd.Role(),
		Actor:     cmd.Actor(),
		Target:    cmd.Target(),
		CourierID: cmd.CourierID(),
		Note:      cmd.Note(),
		At:        now,
	})
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o, cmd.ExpectedVersion()); err != nil {
		return nil, err
	}

	if change.IsSettlement() {
		entries, err := h.policy.CompletionEntries(o, now)
		if err != nil {
			return nil, err
		}
		slices.SortFunc(entries, func(a, b *wallet.Entry) int {
			return strings.Compare(a.AccountID().String(), b.AccountID().String())
		})
		ledgerRepo := uow.LedgerRepository()
		for _, entry := range entries {
			if err = ledgerRepo.Post(ctx, entry); err != nil {
				return nil, err
			}
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.OrderTransitioned(ctx, change)

	return o, nil
}

// isReplay reports whether cmd repeats the transition that produced o's terminal state.
// Only a party of the order or an operator may replay.
func isReplay(o *order.Order, cmd ChangeOrderStatusCommand) bool {
	if !o.IsReplayOf(cmd.Role(), cmd.Target(), cmd.ExpectedVersion()) {
		return false
	}
	switch cmd.Role() {
	case order.RoleAdmin, order.RoleSystem:
		return true
	default:
		return o.IsParty(cmd.Actor())
	}
}
