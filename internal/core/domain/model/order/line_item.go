package order

import (
	"errors"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

const (
	MaxItemQuantity = 10_000

	// MaxUnitPrice keeps quantity × unit price within int64; order sums are still checked.
	MaxUnitPrice kernel.Money = 1_000_000_000_000
)

var ErrLineItemIsNotConstructed = errs.NewValueIsRequiredError("line item must be created via NewLineItem")

// LineItem is one immutable product line of an order.
type LineItem struct { //nolint:recvcheck //using for validation
	productID string
	name      string
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

// NewLineItem validates product id, quantity in [1, MaxItemQuantity] and unit price in [1, MaxUnitPrice].
func NewLineItem(productID, name string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{name: strings.TrimSpace(name), guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) ProductID() string {
	return i.productID
}

func (i LineItem) Name() string {
	return i.name
}

func (i LineItem) Quantity() int {
	return i.quantity
}

func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is quantity × unit price.
func (i LineItem) Subtotal() kernel.Money {
	return kernel.Money(int64(i.quantity) * i.unitPrice.Int64())
}

func (i *LineItem) setProductID(productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(unitPrice kernel.Money) error {
	if unitPrice < 1 || unitPrice > MaxUnitPrice {
		return errs.NewValueIsOutOfRangeError("unitPrice", unitPrice, 1, MaxUnitPrice)
	}
	i.unitPrice = unitPrice
	return nil
}
