package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned for orders not built via NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrStaleLocation is returned when a live location is older than the stored one.
	ErrStaleLocation = errors.New("courier location is older than the stored one")
)

// Draft carries the buyer-supplied checkout data for NewOrder.
type Draft struct {
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	Items           []LineItem
	DeliveryFee     kernel.Money
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	Notes           string
}

// TransitionRequest is a request to move an order to Target on behalf of Actor.
// CourierID is only consulted for the admin override into pickup.
type TransitionRequest struct {
	Role      Role
	Actor     kernel.UUID
	Target    Status
	CourierID *kernel.UUID
	Note      string
	At        time.Time
}

// Order is the aggregate root of the order lifecycle.
//
// Invariants:
//   - total == subtotal + deliveryFee
//   - items are non-empty and immutable
//   - status only moves along the transition table
//   - version increases by one on every accepted transition
type Order struct {
	id              kernel.UUID
	buyerID         kernel.UUID
	sellerID        kernel.UUID
	courierID       *kernel.UUID
	items           []LineItem
	subtotal        kernel.Money
	deliveryFee     kernel.Money
	total           kernel.Money
	status          Status
	previousStatus  Status
	paymentStatus   PaymentStatus
	paymentMethod   PaymentMethod
	deliveryAddress string
	notes           string
	courierLocation *kernel.GeoPoint
	version         int64
	createdAt       time.Time
	updatedAt       time.Time

	isConstructed bool
}

// NewOrder creates an order in preparing status with version 1.
//
// Example:
//
//	item, _ := order.NewLineItem("sku-1", "Keripik", 3, 14000)
//	o, err := order.NewOrder(kernel.NewUUID(), order.Draft{
//	    BuyerID: buyerID, SellerID: sellerID, Items: []order.LineItem{item},
//	    DeliveryFee: 10000, DeliveryAddress: "Jl. Merdeka 1", PaymentMethod: order.PaymentCash,
//	}, time.Now())
func NewOrder(id kernel.UUID, draft Draft, now time.Time) (*Order, error) {
	o := &Order{
		status:        Preparing,
		paymentStatus: PaymentPending,
		notes:         strings.TrimSpace(draft.Notes),
		version:       1,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(draft.BuyerID, draft.SellerID),
		o.setItems(draft.Items),
		o.setDeliveryFee(draft.DeliveryFee),
		o.setDeliveryAddress(draft.DeliveryAddress),
		draft.PaymentMethod.Validate(),
	); err != nil {
		return nil, err
	}
	total, err := kernel.AddMoney("total", o.subtotal, o.deliveryFee)
	if err != nil {
		return nil, err
	}
	o.paymentMethod = draft.PaymentMethod
	o.total = total

	return o, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                   { return o.id }
func (o *Order) BuyerID() kernel.UUID              { return o.buyerID }
func (o *Order) SellerID() kernel.UUID             { return o.sellerID }
func (o *Order) Courier() *kernel.UUID             { return o.courierID }
func (o *Order) Subtotal() kernel.Money            { return o.subtotal }
func (o *Order) DeliveryFee() kernel.Money         { return o.deliveryFee }
func (o *Order) Total() kernel.Money               { return o.total }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) PreviousStatus() Status            { return o.previousStatus }
func (o *Order) PaymentStatus() PaymentStatus      { return o.paymentStatus }
func (o *Order) PaymentMethod() PaymentMethod      { return o.paymentMethod }
func (o *Order) DeliveryAddress() string           { return o.deliveryAddress }
func (o *Order) Notes() string                     { return o.notes }
func (o *Order) CourierLocation() *kernel.GeoPoint { return o.courierLocation }
func (o *Order) Version() int64                    { return o.version }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// IsParty reports whether userID is the buyer, seller or bound courier of the order.
func (o *Order) IsParty(userID kernel.UUID) bool {
	if o.buyerID.IsEqual(userID) || o.sellerID.IsEqual(userID) {
		return true
	}
	return o.courierID != nil && o.courierID.IsEqual(userID)
}

// Transition applies req if the transition table and party rules allow it.
// On success the version is incremented and the accepted change is returned;
// on failure the order is left untouched.
func (o *Order) Transition(req TransitionRequest) (StatusChanged, error) {
	if err := o.Validate(); err != nil {
		return StatusChanged{}, err
	}
	if err := errors.Join(req.Role.Validate(), req.Target.Validate()); err != nil {
		return StatusChanged{}, err
	}

	if o.status.IsTerminal() {
		return StatusChanged{}, errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), req.Target.String(), req.Role.String(),
			fmt.Errorf("order is %s", o.status))
	}

	if !CanTransition(o.status, req.Role, req.Target) {
		return StatusChanged{}, errs.NewInvalidTransitionError(o.status.String(), req.Target.String(), req.Role.String())
	}

	courierID, err := o.checkParty(req)
	if err != nil {
		return StatusChanged{}, err
	}

	at := req.At.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	o.previousStatus = o.status
	o.status = req.Target
	o.courierID = courierID
	if req.Target == Completed && o.paymentStatus != PaymentPaid {
		o.paymentStatus = PaymentPaid
	}
	o.updatedAt = at
	o.version++

	return StatusChanged{
		OrderID:   o.id,
		BuyerID:   o.buyerID,
		SellerID:  o.sellerID,
		CourierID: o.courierID,
		From:      o.previousStatus,
		To:        o.status,
		Role:      req.Role,
		Actor:     req.Actor,
		Version:   o.version,
		Total:     o.total,
		Note:      strings.TrimSpace(req.Note),
		At:        at,
	}, nil
}

// IsReplayOf reports whether a request for target with expectedVersion repeats the
// terminal transition that produced the current state. Such requests succeed without
// side effects.
func (o *Order) IsReplayOf(role Role, target Status, expectedVersion int64) bool {
	return o.status == target &&
		target.IsTerminal() &&
		expectedVersion == o.version-1 &&
		CanTransition(o.previousStatus, role, target)
}

// LastChange rebuilds the change that produced the current status. For an order that
// never transitioned it describes the creation: From is empty and To is preparing.
// Role and Actor are not persisted and are left empty.
func (o *Order) LastChange() StatusChanged {
	return StatusChanged{
		OrderID:   o.id,
		BuyerID:   o.buyerID,
		SellerID:  o.sellerID,
		CourierID: o.courierID,
		From:      o.previousStatus,
		To:        o.status,
		Version:   o.version,
		Total:     o.total,
		At:        o.updatedAt,
	}
}

// UpdateCourierLocation records the bound courier's live position while the order is
// being delivered. Positions older than the stored one are rejected with ErrStaleLocation.
// The version is not incremented: location is a side channel stamped with its own time.
func (o *Order) UpdateCourierLocation(courierID kernel.UUID, point kernel.GeoPoint) error {
	if err := errors.Join(o.Validate(), point.Validate()); err != nil {
		return err
	}
	if o.status != Pickup {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("live location is accepted only in %s, order is %s", Pickup, o.status))
	}
	if o.courierID == nil || !o.courierID.IsEqual(courierID) {
		return errs.NewValueIsInvalidErrorWithCause("courierId",
			fmt.Errorf("%s is not the courier of order %s", courierID, o.id))
	}
	if o.courierLocation != nil && !point.RecordedAt().After(o.courierLocation.RecordedAt()) {
		return ErrStaleLocation
	}

	o.courierLocation = &point
	return nil
}

// checkParty enforces that the actor is the party the role acts for and returns the
// courier binding after the transition.
func (o *Order) checkParty(req TransitionRequest) (*kernel.UUID, error) {
	reject := func(reason string) error {
		return errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), req.Target.String(), req.Role.String(), errors.New(reason))
	}

	switch req.Role {
	case RoleSeller:
		if !req.Actor.IsEqual(o.sellerID) {
			return nil, reject("actor is not the seller of this order")
		}
	case RoleBuyer:
		if !req.Actor.IsEqual(o.buyerID) {
			return nil, reject("actor is not the buyer of this order")
		}
	case RoleCourier:
		if req.Target == Pickup {
			if err := req.Actor.Validate(); err != nil {
				return nil, err
			}
			if req.Actor.IsEqual(o.buyerID) || req.Actor.IsEqual(o.sellerID) {
				return nil, reject("a party of the order cannot deliver it")
			}
			courier := req.Actor
			return &courier, nil
		}
		if o.courierID == nil || !o.courierID.IsEqual(req.Actor) {
			return nil, reject("actor is not the courier bound to this order")
		}
	case RoleAdmin:
		if req.Target == Pickup {
			if req.CourierID == nil {
				return nil, errs.NewValueIsRequiredError("courierId")
			}
			if err := req.CourierID.Validate(); err != nil {
				return nil, err
			}
			if req.CourierID.IsEqual(o.buyerID) || req.CourierID.IsEqual(o.sellerID) {
				return nil, reject("a party of the order cannot deliver it")
			}
			courier := *req.CourierID
			return &courier, nil
		}
	case RoleSystem:
	}

	return o.courierID, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(buyerID, sellerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}
	if err := sellerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sellerId", err)
	}
	if buyerID.IsEqual(sellerID) {
		return errs.NewValueIsInvalidErrorWithCause("sellerId", errors.New("buyer cannot order from themselves"))
	}
	o.buyerID = buyerID
	o.sellerID = sellerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var subtotal kernel.Money
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", idx), err)
		}
		sum, err := kernel.AddMoney("subtotal", subtotal, item.Subtotal())
		if err != nil {
			return err
		}
		subtotal = sum
	}

	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	o.subtotal = subtotal
	return nil
}

func (o *Order) setDeliveryFee(fee kernel.Money) error {
	if fee < 1 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFee", fmt.Errorf("%d is not greater than 0", fee))
	}
	o.deliveryFee = fee
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.deliveryAddress = address
	return nil
}
