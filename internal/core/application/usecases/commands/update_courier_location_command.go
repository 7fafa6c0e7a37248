package commands

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/guard"
)

var ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
	"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
)

// UpdateCourierLocationCommand reports the courier's live position for an order in pickup.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	point     kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateCourierLocationCommand validates coordinates. A zero recordedAt means now.
func NewUpdateCourierLocationCommand(
	orderID, courierID kernel.UUID,
	latitude, longitude float64,
	recordedAt time.Time,
) (UpdateCourierLocationCommand, error) {
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	point, err := kernel.NewGeoPoint(latitude, longitude, recordedAt)
	if err != nil {
		return UpdateCourierLocationCommand{}, err
	}
	if err = errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	return UpdateCourierLocationCommand{
		orderID:   orderID,
		courierID: courierID,
		point:     point,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

func (c UpdateCourierLocationCommand) OrderID() kernel.UUID   { return c.orderID }
func (c UpdateCourierLocationCommand) CourierID() kernel.UUID { return c.courierID }
func (c UpdateCourierLocationCommand) Point() kernel.GeoPoint { return c.point }
