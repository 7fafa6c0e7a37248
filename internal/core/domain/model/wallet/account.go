package wallet

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
)

// Balance is the cached view of an account.
type Balance struct {
	AccountID kernel.UUID
	Available kernel.Money
	Pending   kernel.Money
}

// Total is available + pending, which always equals the sum of the account's entries.
func (b Balance) Total() kernel.Money {
	return b.Available + b.Pending
}

// Account is the balance cache of one wallet. The ledger entries are the source of truth;
// an account is only ever changed together with the entry that explains the change.
type Account struct {
	id        kernel.UUID
	kind      AccountKind
	available kernel.Money
	pending   kernel.Money
	version   int64
	updatedAt time.Time
}

// NewAccount opens an empty account.
func NewAccount(id kernel.UUID, kind AccountKind, now time.Time) (*Account, error) {
	return RestoreAccount(id, kind, 0, 0, 0, now)
}

func RestoreAccount(
	id kernel.UUID,
	kind AccountKind,
	available, pending kernel.Money,
	version int64,
	updatedAt time.Time,
) (*Account, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return &Account{
		id:        id,
		kind:      kind,
		available: available,
		pending:   pending,
		version:   version,
		updatedAt: updatedAt,
	}, nil
}

func (a *Account) ID() kernel.UUID      { return a.id }
func (a *Account) Kind() AccountKind    { return a.kind }
func (a *Account) Version() int64       { return a.version }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

func (a *Account) Balance() Balance {
	return Balance{AccountID: a.id, Available: a.available, Pending: a.pending}
}

// Post applies e to the cached balances. Debits beyond the available balance fail with
// an InsufficientFunds error unless the account may go negative.
func (a *Account) Post(e *Entry, now time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if !e.AccountID().IsEqual(a.id) {
		return errs.NewValueIsInvalidError("accountId")
	}

	available, pending := e.Deltas()
	if e.IsDebit() && !a.kind.MayGoNegative() && a.available+available < 0 {
		return errs.NewInsufficientFundsError(a.id.String(), e.Amount().Neg().Int64(), a.available.Int64())
	}

	a.available += available
	a.pending += pending
	a.version++
	a.updatedAt = now
	return nil
}

// Settle moves amount from pending to available.
func (a *Account) Settle(amount kernel.Money, now time.Time) error {
	if amount <= 0 || amount > a.pending {
		return errs.NewValueIsOutOfRangeError("settlement amount", amount, 1, a.pending)
	}
	a.pending -= amount
	a.available += amount
	a.version++
	a.updatedAt = now
	return nil
}
