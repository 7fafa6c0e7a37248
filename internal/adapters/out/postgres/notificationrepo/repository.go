package notificationrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderledger/internal/adapters/out/postgres/pgerr"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormNotificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormNotificationRepository(db *gorm.DB, tracker aggregateTracker) *GormNotificationRepository {
	return &GormNotificationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s for %s", ports.ErrDuplicateNotification, n.EventKey(), n.RecipientID())
		}
		return err
	}

	r.tracker.TrackAggregate(n.ID(), n)
	return nil
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, id, recipientID kernel.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ? AND recipient_id = ? AND cleared_at IS NULL", id.Bytes(), recipientID.Bytes()).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	return nil
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("recipient_id = ? AND cleared_at IS NULL AND NOT read", recipientID.Bytes()).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) Clear(ctx context.Context, recipientID kernel.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("recipient_id = ? AND cleared_at IS NULL", recipientID.Bytes()).
		Update("cleared_at", at)
	return result.RowsAffected, result.Error
}
