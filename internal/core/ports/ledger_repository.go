package ports

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
)

// LedgerRepository appends entries and maintains the account balance caches.
// Implementations serialize writers per account.
type LedgerRepository interface {
	// Post appends entry and applies it to its account, opening the account on first use.
	// Debits that exceed the available balance fail with InsufficientFundsError and write
	// nothing. A second order-linked entry of the same type for the same account fails
	// with ErrDuplicateEntry.
	Post(ctx context.Context, entry *wallet.Entry) error

	// GetAccount returns the account's cached balances.
	GetAccount(ctx context.Context, id kernel.UUID) (*wallet.Account, error)

	// SettleDue settles every unsettled deferred entry due at or before now for accounts
	// of kind and returns the settlements written.
	SettleDue(ctx context.Context, kind wallet.AccountKind, now time.Time) ([]wallet.Settlement, error)
}
