package wallet

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
)

// Settlement records that a deferred entry became available. Settlements are append-only;
// an entry is settled exactly when a settlement references it.
type Settlement struct {
	EntryID   kernel.UUID
	AccountID kernel.UUID
	Amount    kernel.Money
	SettledAt time.Time
}

// SettledAccount summarizes one account's settlements in a sweep.
type SettledAccount struct {
	AccountID kernel.UUID
	Kind      AccountKind
	Amount    kernel.Money
	Entries   int
	SettledAt time.Time
}

// SummarizeSettlements groups settlements by account, preserving first-seen order.
func SummarizeSettlements(kind AccountKind, settlements []Settlement) []SettledAccount {
	index := make(map[kernel.UUID]int)
	var out []SettledAccount
	for _, s := range settlements {
		i, ok := index[s.AccountID]
		if !ok {
			i = len(out)
			index[s.AccountID] = i
			out = append(out, SettledAccount{AccountID: s.AccountID, Kind: kind, SettledAt: s.SettledAt})
		}
		out[i].Amount += s.Amount
		out[i].Entries++
		if s.SettledAt.After(out[i].SettledAt) {
			out[i].SettledAt = s.SettledAt
		}
	}
	return out
}
