package notificationrepo

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null"`
	Type        string     `gorm:"type:varchar(32);not null"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Body        string     `gorm:"type:text;not null;default:''"`
	OrderID     *uuid.UUID `gorm:"type:uuid"`
	EventKey    string     `gorm:"type:varchar(255);not null"`
	Read        bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	ClearedAt   *time.Time
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	var orderID *uuid.UUID
	if n.OrderID() != nil {
		raw := n.OrderID().Bytes()
		orderID = &raw
	}
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		RecipientID: n.RecipientID().Bytes(),
		Type:        string(n.Type()),
		Title:       n.Title(),
		Body:        n.Body(),
		OrderID:     orderID,
		EventKey:    n.EventKey(),
		Read:        n.IsRead(),
		CreatedAt:   n.CreatedAt(),
		ClearedAt:   n.ClearedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}
	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	return notification.RestoreNotification(id, notification.Message{
		RecipientID: recipientID,
		Type:        notification.Type(dto.Type),
		Title:       dto.Title,
		Body:        dto.Body,
		OrderID:     orderID,
		EventKey:    dto.EventKey,
	}, dto.Read, dto.CreatedAt.UTC(), dto.ClearedAt)
}
