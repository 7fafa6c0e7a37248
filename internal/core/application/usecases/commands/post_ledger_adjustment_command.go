package commands

import (
	"errors"
	"fmt"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrPostLedgerAdjustmentCommandIsNotConstructed = errors.New(
	"PostLedgerAdjustmentCommand must be created via NewPostLedgerAdjustmentCommand constructor",
)

// Direction says whether an adjustment adds to or takes from an account.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// creditTypes and debitTypes are the entry types an operator may post by hand.
var (
	creditTypes = []wallet.EntryType{wallet.TypeAdjustment, wallet.TypeRefund}
	debitTypes  = []wallet.EntryType{wallet.TypeAdjustment, wallet.TypeFee}
)

// AdjustmentInput is an operator's manual posting.
type AdjustmentInput struct {
	AccountID   kernel.UUID
	AccountKind string
	Direction   Direction
	Amount      int64
	Type        string
	OrderID     *kernel.UUID
	Description string
}

// PostLedgerAdjustmentCommand is a manual credit (top-up) or debit (deduction).
// AccountKind may be empty when the account already exists.
type PostLedgerAdjustmentCommand struct { //nolint:recvcheck //using for validation
	accountID   kernel.UUID
	accountKind wallet.AccountKind
	amount      kernel.Money
	entryType   wallet.EntryType
	orderID     *kernel.UUID
	description string

	guard guard.ConstructorGuard
}

func NewPostLedgerAdjustmentCommand(in AdjustmentInput) (PostLedgerAdjustmentCommand, error) {
	cmd := PostLedgerAdjustmentCommand{
		accountID:   in.AccountID,
		orderID:     in.OrderID,
		description: in.Description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := in.AccountID.Validate(); err != nil {
		return PostLedgerAdjustmentCommand{}, err
	}
	if in.AccountKind != "" {
		kind, err := wallet.ParseAccountKind(in.AccountKind)
		if err != nil {
			return PostLedgerAdjustmentCommand{}, err
		}
		cmd.accountKind = kind
	}

	amount, err := kernel.NewPositiveMoney("amount", in.Amount)
	if err != nil {
		return PostLedgerAdjustmentCommand{}, err
	}

	entryType := wallet.TypeAdjustment
	if in.Type != "" {
		if entryType, err = wallet.ParseEntryType(in.Type); err != nil {
			return PostLedgerAdjustmentCommand{}, err
		}
	}

	switch in.Direction {
	case Credit:
		cmd.amount = amount
		err = checkType(entryType, creditTypes)
	case Debit:
		cmd.amount = amount.Neg()
		err = checkType(entryType, debitTypes)
	default:
		err = errs.NewValueIsInvalidErrorWithCause("direction", fmt.Errorf("%q is not credit or debit", in.Direction))
	}
	if err != nil {
		return PostLedgerAdjustmentCommand{}, err
	}
	cmd.entryType = entryType

	return cmd, nil
}

func (c PostLedgerAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrPostLedgerAdjustmentCommandIsNotConstructed)
}

func (c PostLedgerAdjustmentCommand) AccountID() kernel.UUID          { return c.accountID }
func (c PostLedgerAdjustmentCommand) AccountKind() wallet.AccountKind { return c.accountKind }
func (c PostLedgerAdjustmentCommand) EntryType() wallet.EntryType     { return c.entryType }
func (c PostLedgerAdjustmentCommand) OrderID() *kernel.UUID           { return c.orderID }
func (c PostLedgerAdjustmentCommand) Description() string             { return c.description }

// Amount is signed: positive for credits, negative for debits.
func (c PostLedgerAdjustmentCommand) Amount() kernel.Money {
	return c.amount
}

func checkType(t wallet.EntryType, allowed []wallet.EntryType) error {
	for _, a := range allowed {
		if t == a {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%s cannot be posted manually in this direction", t))
}
