package commands

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/guard"
)

var ErrRequestWithdrawalCommandIsNotConstructed = errors.New(
	"RequestWithdrawalCommand must be created via NewRequestWithdrawalCommand constructor",
)

// RequestWithdrawalCommand asks to pay out part of an account's available balance.
type RequestWithdrawalCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	amount    kernel.Money

	guard guard.ConstructorGuard
}

func NewRequestWithdrawalCommand(accountID kernel.UUID, amount int64) (RequestWithdrawalCommand, error) {
	if err := accountID.Validate(); err != nil {
		return RequestWithdrawalCommand{}, err
	}
	money, err := kernel.NewPositiveMoney("amount", amount)
	if err != nil {
		return RequestWithdrawalCommand{}, err
	}

	return RequestWithdrawalCommand{
		accountID: accountID,
		amount:    money,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RequestWithdrawalCommand) Validate() error {
	return c.guard.Validate(ErrRequestWithdrawalCommandIsNotConstructed)
}

func (c RequestWithdrawalCommand) AccountID() kernel.UUID { return c.accountID }
func (c RequestWithdrawalCommand) Amount() kernel.Money   { return c.amount }
