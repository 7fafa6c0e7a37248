package order

import (
	"fmt"

	"orderledger/internal/pkg/errs"
)

// PaymentStatus tracks the buyer's payment, which is collected outside the core.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid payment status", string(p)))
	}
}

// PaymentMethod is how the buyer pays at checkout.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentWallet   PaymentMethod = "wallet"
	PaymentQRIS     PaymentMethod = "qris"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if err := method.Validate(); err != nil {
		return "", err
	}
	return method, nil
}

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentWallet, PaymentQRIS:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
}
