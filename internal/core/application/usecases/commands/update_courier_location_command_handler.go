package commands

import (
	"context"
)

// UpdateCourierLocationCommandHandler stores live courier positions. Positions do not
// change the order version, so they never conflict with the courier's own transitions.
type UpdateCourierLocationCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewUpdateCourierLocationCommandHandler(uowFactory OrderUoWFactory) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.UpdateCourierLocation(cmd.CourierID(), cmd.Point()); err != nil {
		return err
	}

	if err = orderRepo.SaveCourierLocation(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
