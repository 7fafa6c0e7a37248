package commands

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrReconcileNotificationsCommandIsNotConstructed = errors.New(
	"ReconcileNotificationsCommand must be created via NewReconcileNotificationsCommand constructor",
)

// ReconcileNotificationsCommand re-plans notifications for orders changed within the
// lookback window.
type ReconcileNotificationsCommand struct { //nolint:recvcheck //using for validation
	lookback time.Duration

	guard guard.ConstructorGuard
}

func NewReconcileNotificationsCommand(lookback time.Duration) (ReconcileNotificationsCommand, error) {
	if lookback <= 0 {
		return ReconcileNotificationsCommand{}, errs.NewValueIsInvalidErrorWithCause("lookback",
			fmt.Errorf("%s is not positive", lookback))
	}
	return ReconcileNotificationsCommand{lookback: lookback, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcileNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileNotificationsCommandIsNotConstructed)
}

func (c ReconcileNotificationsCommand) Lookback() time.Duration {
	return c.lookback
}
