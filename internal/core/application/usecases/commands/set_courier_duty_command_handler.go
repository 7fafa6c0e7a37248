package commands

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/pkg/errs"
)

// SetCourierDutyCommandHandler registers couriers on first use and toggles their duty.
type SetCourierDutyCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewSetCourierDutyCommandHandler(uowFactory CourierUoWFactory) SetCourierDutyCommandHandler {
	return SetCourierDutyCommandHandler{uowFactory: uowFactory}
}

func (h SetCourierDutyCommandHandler) Handle(ctx context.Context, cmd SetCourierDutyCommand) (*courier.Courier, error) {
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

	now := time.Now().UTC()
	directory := uow.CourierDirectory()

	c, err := directory.Get(ctx, cmd.CourierID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if c, err = courier.NewCourier(cmd.CourierID(), cmd.Name(), now); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case cmd.Name() != "" && cmd.Name() != c.Name():
		if err = c.Rename(cmd.Name(), now); err != nil {
			return nil, err
		}
	}

	c.SetOnDuty(cmd.OnDuty(), now)

	if err = directory.Save(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
