package order

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
)

// Snapshot is the persisted form of an Order.
type Snapshot struct {
	ID              kernel.UUID
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	CourierID       *kernel.UUID
	Items           []LineItem
	DeliveryFee     kernel.Money
	Total           kernel.Money
	Status          Status
	PreviousStatus  Status
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	DeliveryAddress string
	Notes           string
	CourierLocation *kernel.GeoPoint
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RestoreOrder rebuilds an order from storage. Totals are recomputed from items and
// checked against the stored total.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		courierID:       s.CourierID,
		notes:           s.Notes,
		courierLocation: s.CourierLocation,
		version:         s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setParties(s.BuyerID, s.SellerID),
		o.setItems(s.Items),
		o.setDeliveryFee(s.DeliveryFee),
		o.setDeliveryAddress(s.DeliveryAddress),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
		s.PaymentMethod.Validate(),
	); err != nil {
		return nil, err
	}
	if s.PreviousStatus != "" {
		if err := s.PreviousStatus.Validate(); err != nil {
			return nil, err
		}
	}
	if s.Version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version")
	}

	o.status = s.Status
	o.previousStatus = s.PreviousStatus
	o.paymentStatus = s.PaymentStatus
	o.paymentMethod = s.PaymentMethod
	total, err := kernel.AddMoney("total", o.subtotal, o.deliveryFee)
	if err != nil {
		return nil, err
	}
	o.total = total
	if s.Total != o.total {
		return nil, errs.NewValueIsInvalidErrorWithCause("total",
			errors.New("stored total does not match items and delivery fee"))
	}

	return o, nil
}

// Snapshot returns the persisted form of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:              o.id,
		BuyerID:         o.buyerID,
		SellerID:        o.sellerID,
		CourierID:       o.courierID,
		Items:           o.Items(),
		DeliveryFee:     o.deliveryFee,
		Total:           o.total,
		Status:          o.status,
		PreviousStatus:  o.previousStatus,
		PaymentStatus:   o.paymentStatus,
		PaymentMethod:   o.paymentMethod,
		DeliveryAddress: o.deliveryAddress,
		Notes:           o.notes,
		CourierLocation: o.courierLocation,
		Version:         o.version,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
	}
}
