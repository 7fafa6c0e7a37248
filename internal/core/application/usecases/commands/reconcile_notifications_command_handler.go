package commands

import (
	"context"
	"time"
)

// ReconcileNotificationsCommandHandler replays the latest change of recently updated
// orders through the Notifier. Notifications that already exist are suppressed by their
// event key, so only deliveries lost after a commit are recreated.
type ReconcileNotificationsCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   Notifier
}

func NewReconcileNotificationsCommandHandler(uowFactory OrderUoWFactory, notifier Notifier) ReconcileNotificationsCommandHandler {
	return ReconcileNotificationsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the number of orders swept.
func (h ReconcileNotificationsCommandHandler) Handle(ctx context.Context, cmd ReconcileNotificationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListUpdatedSince(ctx, time.Now().UTC().Add(-cmd.Lookback()))
	if err != nil {
		return 0, err
	}

	for _, o := range orders {
		h.notifier.OrderTransitioned(ctx, o.LastChange())
	}

	return len(orders), nil
}
