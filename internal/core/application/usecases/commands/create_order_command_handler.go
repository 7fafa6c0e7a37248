package commands

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
)

// CreateOrderCommandHandler places new orders in preparing status and tells the seller.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	feeFloor   kernel.Money
	notifier   Notifier
}

// NewCreateOrderCommandHandler creates a handler that raises every delivery fee to at
// least feeFloor.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	feeFloor kernel.Money,
	notifier Notifier,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		feeFloor:   feeFloor,
		notifier:   notifier,
	}
}

// Handle persists the order and, after commit, notifies the seller.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	draft := cmd.Draft()
	draft.DeliveryFee = draft.DeliveryFee.Max(h.feeFloor)

	o, err := order.NewOrder(cmd.OrderID(), draft, time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	created := o.LastChange()
	created.Role = order.RoleBuyer
	created.Actor = o.BuyerID()
	h.notifier.OrderTransitioned(ctx, created)

	return o, nil
}
