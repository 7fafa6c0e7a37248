package wallet

import (
	"fmt"

	"orderledger/internal/pkg/errs"
)

// AccountKind is the owner type of a wallet account.
type AccountKind string

const (
	KindSeller   AccountKind = "seller"
	KindCourier  AccountKind = "courier"
	KindBuyer    AccountKind = "buyer"
	KindPlatform AccountKind = "platform"
)

func ParseAccountKind(s string) (AccountKind, error) {
	kind := AccountKind(s)
	if err := kind.Validate(); err != nil {
		return "", err
	}
	return kind, nil
}

func (k AccountKind) Validate() error {
	switch k {
	case KindSeller, KindCourier, KindBuyer, KindPlatform:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("account kind", fmt.Errorf("%q is not a valid account kind", string(k)))
	}
}

// MayGoNegative reports whether the account is allowed an available balance below zero.
// Only the platform clearing account is.
func (k AccountKind) MayGoNegative() bool {
	return k == KindPlatform
}

// EntryType classifies a ledger entry.
type EntryType string

const (
	TypeEarning    EntryType = "earning"
	TypeFee        EntryType = "fee"
	TypeWithdrawal EntryType = "withdrawal"
	TypeRefund     EntryType = "refund"
	TypeAdjustment EntryType = "adjustment"
)

func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t EntryType) Validate() error {
	switch t {
	case TypeEarning, TypeFee, TypeWithdrawal, TypeRefund, TypeAdjustment:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("entry type", fmt.Errorf("%q is not a valid entry type", string(t)))
	}
}
