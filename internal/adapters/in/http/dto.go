package http

import (
	"time"

	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
)

type Item struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type NewOrder struct {
	SellerID        kernel.UUID `json:"sellerId"`
	Items           []Item      `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	DeliveryFee     int64       `json:"deliveryFee"`
	Notes           string      `json:"notes"`
}

type StatusChange struct {
	Status          string       `json:"status"`
	ExpectedVersion int64        `json:"expectedVersion"`
	CourierID       *kernel.UUID `json:"courierId,omitempty"`
	Notes           string       `json:"notes"`
}

type LocationUpdate struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recordedAt"`
}

type CourierLocation struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Order struct {
	ID              kernel.UUID      `json:"id"`
	BuyerID         kernel.UUID      `json:"buyerId"`
	SellerID        kernel.UUID      `json:"sellerId"`
	CourierID       *kernel.UUID     `json:"courierId"`
	Items           []Item           `json:"items"`
	Subtotal        int64            `json:"subtotal"`
	DeliveryFee     int64            `json:"deliveryFee"`
	Total           int64            `json:"total"`
	Status          string           `json:"status"`
	PreviousStatus  string           `json:"previousStatus,omitempty"`
	PaymentStatus   string           `json:"paymentStatus"`
	PaymentMethod   string           `json:"paymentMethod"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Notes           string           `json:"notes,omitempty"`
	CourierLocation *CourierLocation `json:"courierLocation,omitempty"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type Balance struct {
	AccountID kernel.UUID `json:"accountId"`
	Kind      string      `json:"kind,omitempty"`
	Available int64       `json:"available"`
	Pending   int64       `json:"pending"`
}

type Adjustment struct {
	AccountID   kernel.UUID  `json:"accountId"`
	AccountKind string       `json:"accountKind"`
	Amount      int64        `json:"amount"`
	Type        string       `json:"type"`
	OrderID     *kernel.UUID `json:"orderId,omitempty"`
	Description string       `json:"description"`
}

type Withdrawal struct {
	AccountID kernel.UUID `json:"accountId"`
	Amount    int64       `json:"amount"`
}

type Entry struct {
	ID          kernel.UUID  `json:"id"`
	OrderID     *kernel.UUID `json:"orderId"`
	Type        string       `json:"type"`
	Amount      int64        `json:"amount"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	SettlesAt   *time.Time   `json:"settlesAt"`
	SettledAt   *time.Time   `json:"settledAt"`
}

type EntriesPage struct {
	AccountID kernel.UUID `json:"accountId"`
	Entries   []Entry     `json:"entries"`
	Page      int         `json:"page"`
	Limit     int         `json:"limit"`
	Total     int64       `json:"total"`
}

type Notification struct {
	ID        kernel.UUID  `json:"id"`
	Type      string       `json:"type"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	OrderID   *kernel.UUID `json:"orderId"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"createdAt"`
}

type Affected struct {
	Affected int64 `json:"affected"`
}

type Courier struct {
	ID        kernel.UUID `json:"id"`
	Name      string      `json:"name"`
	OnDuty    bool        `json:"onDuty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type DutyChange struct {
	Name   string `json:"name"`
	OnDuty bool   `json:"onDuty"`
}

func orderFromAggregate(o *order.Order) Order {
	items := make([]Item, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, Item{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Int64(),
		})
	}

	out := Order{
		ID:              o.ID(),
		BuyerID:         o.BuyerID(),
		SellerID:        o.SellerID(),
		CourierID:       o.Courier(),
		Items:           items,
		Subtotal:        o.Subtotal().Int64(),
		DeliveryFee:     o.DeliveryFee().Int64(),
		Total:           o.Total().Int64(),
		Status:          o.Status().String(),
		PreviousStatus:  o.PreviousStatus().String(),
		PaymentStatus:   string(o.PaymentStatus()),
		PaymentMethod:   string(o.PaymentMethod()),
		DeliveryAddress: o.DeliveryAddress(),
		Notes:           o.Notes(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if loc := o.CourierLocation(); loc != nil {
		out.CourierLocation = &CourierLocation{
			Latitude:   loc.Latitude(),
			Longitude:  loc.Longitude(),
			RecordedAt: loc.RecordedAt(),
		}
	}
	return out
}

func orderFromView(v queries.OrderView) Order {
	items := make([]Item, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, Item(item))
	}

	out := Order{
		ID:              v.ID,
		BuyerID:         v.BuyerID,
		SellerID:        v.SellerID,
		CourierID:       v.CourierID,
		Items:           items,
		Subtotal:        v.Subtotal,
		DeliveryFee:     v.DeliveryFee,
		Total:           v.Total,
		Status:          v.Status,
		PreviousStatus:  v.PreviousStatus,
		PaymentStatus:   v.PaymentStatus,
		PaymentMethod:   v.PaymentMethod,
		DeliveryAddress: v.DeliveryAddress,
		Notes:           v.Notes,
		Version:         v.Version,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if v.CourierLocation != nil {
		loc := CourierLocation(*v.CourierLocation)
		out.CourierLocation = &loc
	}
	return out
}

func balanceFromWallet(b wallet.Balance, kind wallet.AccountKind) Balance {
	return Balance{
		AccountID: b.AccountID,
		Kind:      string(kind),
		Available: b.Available.Int64(),
		Pending:   b.Pending.Int64(),
	}
}

func courierFromAggregate(c *courier.Courier) Courier {
	return Courier{ID: c.ID(), Name: c.Name(), OnDuty: c.IsOnDuty(), UpdatedAt: c.UpdatedAt()}
}
