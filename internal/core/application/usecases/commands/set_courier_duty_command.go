package commands

import (
	"errors"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/guard"
)

var ErrSetCourierDutyCommandIsNotConstructed = errors.New(
	"SetCourierDutyCommand must be created via NewSetCourierDutyCommand constructor",
)

// SetCourierDutyCommand puts a courier on or off duty. On-duty couriers are told about
// orders that become ready for pickup. Name registers or renames the courier.
type SetCourierDutyCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	onDuty    bool

	guard guard.ConstructorGuard
}

func NewSetCourierDutyCommand(courierID kernel.UUID, name string, onDuty bool) (SetCourierDutyCommand, error) {
	if err := courierID.Validate(); err != nil {
		return SetCourierDutyCommand{}, err
	}
	return SetCourierDutyCommand{
		courierID: courierID,
		name:      strings.TrimSpace(name),
		onDuty:    onDuty,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SetCourierDutyCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierDutyCommandIsNotConstructed)
}

func (c SetCourierDutyCommand) CourierID() kernel.UUID { return c.courierID }
func (c SetCourierDutyCommand) Name() string           { return c.name }
func (c SetCourierDutyCommand) OnDuty() bool           { return c.onDuty }
