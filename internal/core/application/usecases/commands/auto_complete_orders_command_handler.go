package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/pkg/errs"
)

// AutoCompleteOrdersCommandHandler completes stale delivered orders as the system actor.
// Each order is completed in its own transaction through the regular transition path, so
// settlement postings and notifications are identical to a buyer confirmation.
type AutoCompleteOrdersCommandHandler struct {
	uowFactory OrderLedgerUoWFactory
	policy     services.CommissionPolicy
	transition ChangeOrderStatusCommandHandler
}

func NewAutoCompleteOrdersCommandHandler(
	uowFactory OrderLedgerUoWFactory,
	policy services.CommissionPolicy,
	notifier Notifier,
) AutoCompleteOrdersCommandHandler {
	return AutoCompleteOrdersCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		transition: NewChangeOrderStatusCommandHandler(uowFactory, policy, notifier),
	}
}

// Handle returns the number of orders completed. Orders changed concurrently by someone
// else are skipped. An order that fails to complete does not hold back the rest of the
// batch: the sweep goes on and reports every failure in one joined error.
func (h AutoCompleteOrdersCommandHandler) Handle(ctx context.Context, cmd AutoCompleteOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	candidates, err := h.candidates(ctx, time.Now().UTC().Add(-cmd.After()), cmd.Limit())
	if err != nil {
		return 0, err
	}

	completed := 0
	var failures []error
	for _, o := range candidates {
		change, err := NewChangeOrderStatusCommand(
			o.ID(), h.policy.PlatformAccountID(),
			string(order.RoleSystem), string(order.Completed),
			o.Version(), nil,
		)
		if err == nil {
			_, err = h.transition.Handle(ctx, change)
		}
		switch {
		case err == nil:
			completed++
		case errors.Is(err, errs.ErrVersionConflict), errors.Is(err, errs.ErrInvalidTransition):
			continue
		default:
			failures = append(failures, fmt.Errorf("auto-complete order %s: %w", o.ID(), err))
		}
	}

	if len(failures) > 0 {
		return completed, fmt.Errorf("%d of %d delivered orders failed to complete: %w",
			len(failures), len(candidates), errors.Join(failures...))
	}
	return completed, nil
}

func (h AutoCompleteOrdersCommandHandler) candidates(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().ListDeliveredBefore(ctx, cutoff, limit)
}
