package commands

import (
	"errors"

	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/pkg/guard"
)

var ErrSettleLedgerCommandIsNotConstructed = errors.New(
	"SettleLedgerCommand must be created via NewSettleLedgerCommand constructor",
)

// SettleLedgerCommand releases due pending earnings of every account of one kind.
type SettleLedgerCommand struct { //nolint:recvcheck //using for validation
	kind wallet.AccountKind

	guard guard.ConstructorGuard
}

func NewSettleLedgerCommand(kind wallet.AccountKind) (SettleLedgerCommand, error) {
	if err := kind.Validate(); err != nil {
		return SettleLedgerCommand{}, err
	}
	return SettleLedgerCommand{kind: kind, guard: guard.NewConstructorGuard()}, nil
}

func (c SettleLedgerCommand) Validate() error {
	return c.guard.Validate(ErrSettleLedgerCommandIsNotConstructed)
}

func (c SettleLedgerCommand) Kind() wallet.AccountKind {
	return c.kind
}
