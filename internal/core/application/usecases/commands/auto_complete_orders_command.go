package commands

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrAutoCompleteOrdersCommandIsNotConstructed = errors.New(
	"AutoCompleteOrdersCommand must be created via NewAutoCompleteOrdersCommand constructor",
)

// AutoCompleteOrdersCommand completes delivered orders the buyer has not confirmed
// within the grace period.
type AutoCompleteOrdersCommand struct { //nolint:recvcheck //using for validation
	after time.Duration
	limit int

	guard guard.ConstructorGuard
}

// NewAutoCompleteOrdersCommand builds a sweep over at most limit orders delivered more
// than after ago.
func NewAutoCompleteOrdersCommand(after time.Duration, limit int) (AutoCompleteOrdersCommand, error) {
	if after <= 0 {
		return AutoCompleteOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("after",
			fmt.Errorf("%s is not positive", after))
	}
	if limit < 1 || limit > 1000 {
		return AutoCompleteOrdersCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, 1000)
	}
	return AutoCompleteOrdersCommand{after: after, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c AutoCompleteOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAutoCompleteOrdersCommandIsNotConstructed)
}

func (c AutoCompleteOrdersCommand) After() time.Duration { return c.after }
func (c AutoCompleteOrdersCommand) Limit() int           { return c.limit }
