package kernel

import (
	"fmt"
	"math"

	"orderledger/internal/pkg/errs"
)

// Money is an amount in integral minor currency units. The ledger is single-currency,
// so no currency code is carried.
type Money int64

// NewPositiveMoney validates that amount is strictly positive.
func NewPositiveMoney(paramName string, amount int64) (Money, error) {
	if amount <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%d is not greater than 0", amount))
	}
	return Money(amount), nil
}

// AddMoney returns a + b, or ValueIsOutOfRange when the sum does not fit in int64.
func AddMoney(paramName string, a, b Money) (Money, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errs.NewValueIsOutOfRangeError(paramName, fmt.Sprintf("%d + %d", a, b), int64(math.MinInt64), int64(math.MaxInt64))
	}
	return a + b, nil
}

// Int64 returns the raw minor-unit value.
func (m Money) Int64() int64 {
	return int64(m)
}

// Neg returns -m.
func (m Money) Neg() Money {
	return -m
}

// Max returns the larger of m and other.
func (m Money) Max(other Money) Money {
	if other > m {
		return other
	}
	return m
}
