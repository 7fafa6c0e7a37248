package services

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Split is the distribution of a completed order's money.
type Split struct {
	SellerEarning  kernel.Money
	CourierEarning kernel.Money
	// PlatformFee is the platform clearing debit; it is always -(SellerEarning + CourierEarning).
	PlatformFee kernel.Money
}

// CommissionPolicy computes completion postings.
//
// Business rules:
//   - seller earning = subtotal - floor(subtotal * sellerPct / 100)
//   - courier earning = delivery fee - floor(delivery fee * courierPct / 100)
//   - rates are below 100, so both earnings of a valid order are positive
//   - the platform account is debited the sum of both earnings, so the postings net to zero
//   - earnings are pending until now + settlement delay
//
// Example:
//
//	policy, _ := services.NewCommissionPolicy(decimal.NewFromInt(10), decimal.NewFromInt(20), 7*24*time.Hour, platformID)
//	split := policy.Split(42000, 10000) // {37800, 8000, -45800}
type CommissionPolicy struct {
	sellerPct         decimal.Decimal
	courierPct        decimal.Decimal
	settlementDelay   time.Duration
	platformAccountID kernel.UUID
}

func NewCommissionPolicy(
	sellerPct, courierPct decimal.Decimal,
	settlementDelay time.Duration,
	platformAccountID kernel.UUID,
) (CommissionPolicy, error) {
	if err := errors.Join(
		validatePct("sellerCommissionPct", sellerPct),
		validatePct("courierCommissionPct", courierPct),
		platformAccountID.Validate(),
	); err != nil {
		return CommissionPolicy{}, err
	}
	if settlementDelay < 0 {
		return CommissionPolicy{}, errs.NewValueIsInvalidErrorWithCause("settlementDelay",
			fmt.Errorf("%s is negative", settlementDelay))
	}

	return CommissionPolicy{
		sellerPct:         sellerPct,
		courierPct:        courierPct,
		settlementDelay:   settlementDelay,
		platformAccountID: platformAccountID,
	}, nil
}

func (p CommissionPolicy) PlatformAccountID() kernel.UUID {
	return p.platformAccountID
}

// Split applies the commission rates to an order's subtotal and delivery fee.
func (p CommissionPolicy) Split(subtotal, deliveryFee kernel.Money) Split {
	seller := subtotal - commission(subtotal, p.sellerPct)
	courier := deliveryFee - commission(deliveryFee, p.courierPct)
	return Split{
		SellerEarning:  seller,
		CourierEarning: courier,
		PlatformFee:    -(seller + courier),
	}
}

// CompletionEntries builds the three ledger entries of a completed order: the seller and
// courier earnings and the platform fee.
func (p CommissionPolicy) CompletionEntries(o *order.Order, now time.Time) ([]*wallet.Entry, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Completed {
		return nil, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("order %s is %s, not %s", o.ID(), o.Status(), order.Completed))
	}
	courierID := o.Courier()
	if courierID == nil {
		return nil, errs.NewValueIsRequiredError("courierId")
	}

	split := p.Split(o.Subtotal(), o.DeliveryFee())
	settlesAt := now.Add(p.settlementDelay)
	orderID := o.ID()
	short := shortID(orderID)

	postings := []wallet.Posting{
		{
			AccountID:   o.SellerID(),
			AccountKind: wallet.KindSeller,
			Type:        wallet.TypeEarning,
			Amount:      split.SellerEarning,
			Description: "Earning for order " + short,
			SettlesAt:   &settlesAt,
		},
		{
			AccountID:   *courierID,
			AccountKind: wallet.KindCourier,
			Type:        wallet.TypeEarning,
			Amount:      split.CourierEarning,
			Description: "Delivery earning for order " + short,
			SettlesAt:   &settlesAt,
		},
		{
			AccountID:   p.platformAccountID,
			AccountKind: wallet.KindPlatform,
			Type:        wallet.TypeFee,
			Amount:      split.PlatformFee,
			Description: "Payouts for order " + short,
		},
	}

	entries := make([]*wallet.Entry, 0, len(postings))
	for _, posting := range postings {
		posting.OrderID = &orderID
		entry, err := wallet.NewEntry(kernel.NewUUID(), posting, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func commission(amount kernel.Money, pct decimal.Decimal) kernel.Money {
	return kernel.Money(decimal.NewFromInt(amount.Int64()).Mul(pct).Div(hundred).Floor().IntPart())
}

func validatePct(name string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThanOrEqual(hundred) {
		return errs.NewValueIsOutOfRangeError(name, pct.String(), 0, "less than 100")
	}
	return nil
}

func shortID(id kernel.UUID) string {
	return id.String()[:8]
}
