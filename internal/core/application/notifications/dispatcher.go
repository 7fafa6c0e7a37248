// Package notifications fans committed domain changes out to per-recipient notification
// records.
package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/metrics"
)

// UnitOfWork is the storage the dispatcher writes through. The dispatcher never calls
// Begin: each record is written on its own, so a duplicate does not abort its siblings.
type UnitOfWork interface {
	NotificationRepository() ports.NotificationRepository
	CourierDirectory() ports.CourierDirectory
}

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Dispatcher implements the commands Notifier. Delivery is best effort: failures are
// logged and counted, and the reconciliation sweep recreates what was lost.
type Dispatcher struct {
	uowFactory UnitOfWorkFactory
	planner    services.NotificationPlanner
	logger     *slog.Logger
	now        func() time.Time
}

func NewDispatcher(uowFactory UnitOfWorkFactory, planner services.NotificationPlanner, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		uowFactory: uowFactory,
		planner:    planner,
		logger:     logger.With("component", "NotificationDispatcher"),
		now:        time.Now,
	}
}

// Notify stores one message. A message whose (recipient, event key) already exists is
// not an error.
func (d *Dispatcher) Notify(ctx context.Context, msg notification.Message) error {
	n, err := notification.NewNotification(kernel.NewUUID(), msg, d.now().UTC())
	if err != nil {
		return err
	}

	err = d.uowFactory.Create().NotificationRepository().Add(ctx, n)
	switch {
	case err == nil:
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultCreated).Inc()
		return nil
	case errors.Is(err, ports.ErrDuplicateNotification):
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return err
	}
}

func (d *Dispatcher) OrderTransitioned(ctx context.Context, change order.StatusChanged) {
	metrics.OrderTransitionsTotal.WithLabelValues(change.To.String(), change.Role.String()).Inc()

	var couriers []kernel.UUID
	if change.To == order.Ready {
		var err error
		couriers, err = d.uowFactory.Create().CourierDirectory().OnDuty(ctx)
		if err != nil {
			d.logger.ErrorContext(ctx, "failed to load on-duty couriers",
				"order_id", change.OrderID.String(), "error", err)
		}
	}

	d.dispatch(ctx, d.planner.PlanTransition(change, couriers))
}

func (d *Dispatcher) EntriesSettled(ctx context.Context, settled []wallet.SettledAccount) {
	msgs := make([]notification.Message, 0, len(settled))
	for _, s := range settled {
		msgs = append(msgs, d.planner.PlanSettlement(s))
	}
	d.dispatch(ctx, msgs)
}

func (d *Dispatcher) LedgerAdjusted(ctx context.Context, entry *wallet.Entry) {
	d.dispatch(ctx, []notification.Message{d.planner.PlanAdjustment(entry)})
}

func (d *Dispatcher) dispatch(ctx context.Context, msgs []notification.Message) {
	for _, msg := range msgs {
		if err := d.Notify(ctx, msg); err != nil {
			d.logger.ErrorContext(ctx, "failed to store notification",
				"recipient_id", msg.RecipientID.String(),
				"event_key", msg.EventKey,
				"error", err)
		}
	}
}
