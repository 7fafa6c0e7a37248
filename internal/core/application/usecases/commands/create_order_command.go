package commands

import (
	"errors"
	"fmt"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// ItemInput is one checkout line as submitted by the buyer.
type ItemInput struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int64
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	OrderID         kernel.UUID
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	Items           []ItemInput
	DeliveryFee     int64
	DeliveryAddress string
	PaymentMethod   string
	Notes           string
}

// CreateOrderCommand represents a buyer's checkout.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderInput{
//	    OrderID: kernel.NewUUID(), BuyerID: buyerID, SellerID: sellerID,
//	    Items:           []ItemInput{{ProductID: "sku-1", Quantity: 3, UnitPrice: 14000}},
//	    DeliveryFee:     10000,
//	    DeliveryAddress: "Jl. Merdeka 1",
//	    PaymentMethod:   "cash",
//	})
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	draft   order.Draft

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout payload. Party rules (buyer differs from
// seller) are left to the order aggregate.
func NewCreateOrderCommand(in CreateOrderInput) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
		draft: order.Draft{
			BuyerID:         in.BuyerID,
			SellerID:        in.SellerID,
			DeliveryFee:     kernel.Money(in.DeliveryFee),
			DeliveryAddress: in.DeliveryAddress,
			Notes:           in.Notes,
		},
	}

	if err := errors.Join(
		cmd.setOrderID(in.OrderID),
		cmd.setItems(in.Items),
		cmd.setPaymentMethod(in.PaymentMethod),
		in.BuyerID.Validate(),
		in.SellerID.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if in.DeliveryFee < 0 {
		return CreateOrderCommand{}, errs.NewValueIsOutOfRangeError("deliveryFee", in.DeliveryFee, 0, "unbounded")
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Draft returns the checkout data with the fee the buyer asked for.
func (c CreateOrderCommand) Draft() order.Draft {
	draft := c.draft
	draft.Items = append([]order.LineItem(nil), c.draft.Items...)
	return draft
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setItems(in []ItemInput) error {
	if len(in) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	items := make([]order.LineItem, 0, len(in))
	for i, raw := range in {
		item, err := order.NewLineItem(raw.ProductID, raw.Name, raw.Quantity, kernel.Money(raw.UnitPrice))
		if err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	c.draft.Items = items
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	parsed, err := order.ParsePaymentMethod(method)
	if err != nil {
		return err
	}

	c.draft.PaymentMethod = parsed
	return nil
}
