package commands

import (
	"errors"
	"fmt"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand asks to move an order to a target status. ExpectedVersion is
// the version the caller last saw; a stale value is a conflict.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, courierID, "courier", "pickup", 2, nil)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrVersionConflict) {
//	    // re-read the order and retry
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.UUID
	role            order.Role
	target          order.Status
	expectedVersion int64
	courierID       *kernel.UUID
	note            string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand validates the request. courierID is only meaningful for an
// admin moving an order into pickup.
func NewChangeOrderStatusCommand(
	orderID, actor kernel.UUID,
	role, target string,
	expectedVersion int64,
	courierID *kernel.UUID,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		orderID:         orderID,
		actor:           actor,
		expectedVersion: expectedVersion,
		guard:           guard.NewConstructorGuard(),
	}

	var err error
	cmd.role, err = order.ParseRole(role)
	if err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	cmd.target, err = order.ParseStatus(target)
	if err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	if err = errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	if expectedVersion < 1 {
		return ChangeOrderStatusCommand{}, errs.NewVersionIsInvalidError("expectedVersion",
			fmt.Errorf("%d is not positive", expectedVersion))
	}
	if courierID != nil {
		if err = courierID.Validate(); err != nil {
			return ChangeOrderStatusCommand{}, errs.NewValueIsInvalidErrorWithCause("courierId", err)
		}
		id := *courierID
		cmd.courierID = &id
	}

	return cmd, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID    { return c.orderID }
func (c ChangeOrderStatusCommand) Actor() kernel.UUID      { return c.actor }
func (c ChangeOrderStatusCommand) Role() order.Role        { return c.role }
func (c ChangeOrderStatusCommand) Target() order.Status    { return c.target }
func (c ChangeOrderStatusCommand) ExpectedVersion() int64  { return c.expectedVersion }
func (c ChangeOrderStatusCommand) CourierID() *kernel.UUID { return c.courierID }
func (c ChangeOrderStatusCommand) Note() string            { return c.note }

// WithNote attaches a free-text note that is shown to the recipients of the change.
func (c ChangeOrderStatusCommand) WithNote(note string) ChangeOrderStatusCommand {
	c.note = strings.TrimSpace(note)
	return c
}
