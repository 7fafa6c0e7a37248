package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Posting is the input for NewEntry.
type Posting struct {
	AccountID   kernel.UUID
	AccountKind AccountKind
	OrderID     *kernel.UUID
	Type        EntryType
	Amount      kernel.Money
	Description string
	// SettlesAt defers a credit into the pending balance until the given time.
	// Nil means the amount is available immediately.
	SettlesAt *time.Time
}

// Entry is one immutable ledger posting.
type Entry struct {
	id          kernel.UUID
	accountID   kernel.UUID
	accountKind AccountKind
	orderID     *kernel.UUID
	entryType   EntryType
	amount      kernel.Money
	description string
	createdAt   time.Time
	settlesAt   *time.Time

	isConstructed bool
}

// NewEntry validates p and creates an entry. Only credits may be deferred.
//
// Example:
//
//	settles := now.Add(7 * 24 * time.Hour)
//	e, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
//	    AccountID: sellerID, AccountKind: wallet.KindSeller, OrderID: &orderID,
//	    Type: wallet.TypeEarning, Amount: 37800, SettlesAt: &settles,
//	}, now)
func NewEntry(id kernel.UUID, p Posting, now time.Time) (*Entry, error) {
	e := &Entry{
		id:            id,
		accountID:     p.AccountID,
		accountKind:   p.AccountKind,
		orderID:       p.OrderID,
		entryType:     p.Type,
		amount:        p.Amount,
		description:   strings.TrimSpace(p.Description),
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		p.AccountID.Validate(),
		p.AccountKind.Validate(),
		p.Type.Validate(),
		e.setSettlesAt(p.SettlesAt),
	); err != nil {
		return nil, err
	}
	if p.OrderID != nil {
		if err := p.OrderID.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("orderId", err)
		}
	}
	if p.Amount == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount", errors.New("0 is not a posting"))
	}

	return e, nil
}

// RestoreEntry rebuilds a stored entry.
func RestoreEntry(id kernel.UUID, p Posting, createdAt time.Time) (*Entry, error) {
	e, err := NewEntry(id, p, createdAt)
	if err != nil {
		return nil, err
	}
	e.createdAt = createdAt
	return e, nil
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID          { return e.id }
func (e *Entry) AccountID() kernel.UUID   { return e.accountID }
func (e *Entry) AccountKind() AccountKind { return e.accountKind }
func (e *Entry) OrderID() *kernel.UUID    { return e.orderID }
func (e *Entry) Type() EntryType          { return e.entryType }
func (e *Entry) Amount() kernel.Money     { return e.amount }
func (e *Entry) Description() string      { return e.description }
func (e *Entry) CreatedAt() time.Time     { return e.createdAt }
func (e *Entry) SettlesAt() *time.Time    { return e.settlesAt }

// IsDebit reports whether the entry reduces the balance.
func (e *Entry) IsDebit() bool {
	return e.amount < 0
}

// IsDeferred reports whether the entry lands in the pending balance.
func (e *Entry) IsDeferred() bool {
	return e.settlesAt != nil
}

// Deltas returns the change the entry applies to the available and pending balances.
func (e *Entry) Deltas() (available, pending kernel.Money) {
	if e.IsDeferred() {
		return 0, e.amount
	}
	return e.amount, 0
}

func (e *Entry) setSettlesAt(at *time.Time) error {
	if at == nil {
		return nil
	}
	if e.amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("settlesAt", errors.New("debits cannot be deferred"))
	}
	if e.entryType != TypeEarning {
		return errs.NewValueIsInvalidErrorWithCause("settlesAt",
			fmt.Errorf("only %s entries are deferred, got %s", TypeEarning, e.entryType))
	}
	settles := at.UTC()
	e.settlesAt = &settles
	return nil
}
