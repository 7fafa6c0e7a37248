package queries

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrListLedgerEntriesQueryIsNotConstructed = errors.New(
	"ListLedgerEntriesQuery must be created via NewListLedgerEntriesQuery constructor",
)

const (
	DefaultEntriesLimit = 20
	MaxEntriesLimit     = 100
)

// ListLedgerEntriesQuery pages through an account's entries, newest first. From and To
// bound created_at inclusively; either may be nil. Zero page and limit take defaults.
type ListLedgerEntriesQuery struct {
	accountID kernel.UUID
	page      int
	limit     int
	from      *time.Time
	to        *time.Time

	guard guard.ConstructorGuard
}

func NewListLedgerEntriesQuery(
	accountID kernel.UUID,
	page, limit int,
	from, to *time.Time,
) (ListLedgerEntriesQuery, error) {
	if err := accountID.Validate(); err != nil {
		return ListLedgerEntriesQuery{}, err
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultEntriesLimit
	}
	if page < 1 {
		return ListLedgerEntriesQuery{}, errs.NewValueIsInvalidErrorWithCause("page", fmt.Errorf("%d is not positive", page))
	}
	if limit < 1 || limit > MaxEntriesLimit {
		return ListLedgerEntriesQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxEntriesLimit)
	}
	if from != nil && to != nil && from.After(*to) {
		return ListLedgerEntriesQuery{}, errs.NewValueIsInvalidErrorWithCause("from", errors.New("from is after to"))
	}

	return ListLedgerEntriesQuery{
		accountID: accountID,
		page:      page,
		limit:     limit,
		from:      from,
		to:        to,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q ListLedgerEntriesQuery) Validate() error {
	return q.guard.Validate(ErrListLedgerEntriesQueryIsNotConstructed)
}

func (q ListLedgerEntriesQuery) AccountID() kernel.UUID { return q.accountID }
func (q ListLedgerEntriesQuery) Page() int              { return q.page }
func (q ListLedgerEntriesQuery) Limit() int             { return q.limit }
func (q ListLedgerEntriesQuery) From() *time.Time       { return q.from }
func (q ListLedgerEntriesQuery) To() *time.Time         { return q.to }

type LedgerEntryView struct {
	ID          kernel.UUID
	OrderID     *kernel.UUID
	Type        string
	Amount      int64
	Description string
	CreatedAt   time.Time
	SettlesAt   *time.Time
	SettledAt   *time.Time
}

// LedgerEntriesPage is one page of entries. Total counts every entry in range.
type LedgerEntriesPage struct {
	AccountID kernel.UUID
	Entries   []LedgerEntryView
	Page      int
	Limit     int
	Total     int64
}
