package orderrepo

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type OrderDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	BuyerID         uuid.UUID   `gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	CourierID       *uuid.UUID  `gorm:"type:uuid;index"`
	Items           []ItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        int64       `gorm:"not null"`
	DeliveryFee     int64       `gorm:"not null"`
	Total           int64       `gorm:"not null"`
	Status          string      `gorm:"type:varchar(16);not null"`
	PreviousStatus  string      `gorm:"type:varchar(16);not null;default:''"`
	PaymentStatus   string      `gorm:"type:varchar(16);not null"`
	PaymentMethod   string      `gorm:"type:varchar(16);not null"`
	DeliveryAddress string      `gorm:"type:text;not null"`
	Notes           string      `gorm:"type:text;not null;default:''"`
	Courier         LocationDTO `gorm:"embedded;embeddedPrefix:courier_"`
	Version         int64       `gorm:"not null"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	ProductID string    `gorm:"type:varchar(255);not null"`
	Name      string    `gorm:"type:varchar(255);not null;default:''"`
	Quantity  int       `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

type LocationDTO struct {
	Latitude   *float64
	Longitude  *float64
	RecordedAt *time.Time
}

func fromDomain(aggregate *order.Order) OrderDTO {
	s := aggregate.Snapshot()
	id := s.ID.Bytes()

	var courierID *uuid.UUID
	if s.CourierID != nil {
		raw := s.CourierID.Bytes()
		courierID = &raw
	}

	items := make([]ItemDTO, 0, len(s.Items))
	for i, item := range s.Items {
		items = append(items, ItemDTO{
			OrderID:   id,
			Position:  i,
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Int64(),
		})
	}

	return OrderDTO{
		ID:              id,
		BuyerID:         s.BuyerID.Bytes(),
		SellerID:        s.SellerID.Bytes(),
		CourierID:       courierID,
		Items:           items,
		Subtotal:        aggregate.Subtotal().Int64(),
		DeliveryFee:     s.DeliveryFee.Int64(),
		Total:           s.Total.Int64(),
		Status:          s.Status.String(),
		PreviousStatus:  s.PreviousStatus.String(),
		PaymentStatus:   string(s.PaymentStatus),
		PaymentMethod:   string(s.PaymentMethod),
		DeliveryAddress: s.DeliveryAddress,
		Notes:           s.Notes,
		Courier:         locationFromDomain(s.CourierLocation),
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func locationFromDomain(point *kernel.GeoPoint) LocationDTO {
	if point == nil {
		return LocationDTO{}
	}
	lat, lng, at := point.Latitude(), point.Longitude(), point.RecordedAt()
	return LocationDTO{Latitude: &lat, Longitude: &lng, RecordedAt: &at}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewLineItem(itemDTO.ProductID, itemDTO.Name, itemDTO.Quantity, kernel.Money(itemDTO.UnitPrice))
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var location *kernel.GeoPoint
	if c := dto.Courier; c.Latitude != nil && c.Longitude != nil && c.RecordedAt != nil {
		point, pointErr := kernel.NewGeoPoint(*c.Latitude, *c.Longitude, c.RecordedAt.UTC())
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return order.RestoreOrder(order.Snapshot{
		ID:              id,
		BuyerID:         buyerID,
		SellerID:        sellerID,
		CourierID:       courierID,
		Items:           items,
		DeliveryFee:     kernel.Money(dto.DeliveryFee),
		Total:           kernel.Money(dto.Total),
		Status:          order.Status(dto.Status),
		PreviousStatus:  order.Status(dto.PreviousStatus),
		PaymentStatus:   order.PaymentStatus(dto.PaymentStatus),
		PaymentMethod:   order.PaymentMethod(dto.PaymentMethod),
		DeliveryAddress: dto.DeliveryAddress,
		Notes:           dto.Notes,
		CourierLocation: location,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt.UTC(),
		UpdatedAt:       dto.UpdatedAt.UTC(),
	})
}
