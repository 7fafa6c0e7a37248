package queries

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/guard"
)

var ErrGetWalletBalanceQueryIsNotConstructed = errors.New(
	"GetWalletBalanceQuery must be created via NewGetWalletBalanceQuery constructor",
)

type GetWalletBalanceQuery struct {
	accountID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetWalletBalanceQuery(accountID kernel.UUID) (GetWalletBalanceQuery, error) {
	if err := accountID.Validate(); err != nil {
		return GetWalletBalanceQuery{}, err
	}
	return GetWalletBalanceQuery{accountID: accountID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletBalanceQueryIsNotConstructed)
}

func (q GetWalletBalanceQuery) AccountID() kernel.UUID {
	return q.accountID
}

// WalletBalanceView holds the cached balances. Kind is empty and UpdatedAt zero for an
// account that has never been posted to.
type WalletBalanceView struct {
	AccountID kernel.UUID
	Kind      string
	Available int64
	Pending   int64
	UpdatedAt time.Time
}
