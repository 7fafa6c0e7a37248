package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the transition fields guarded by the version the caller loaded.
// Line items are immutable and never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Updates(map[string]any{
			"courier_id":      dto.CourierID,
			"status":          dto.Status,
			"previous_status": dto.PreviousStatus,
			"payment_status":  dto.PaymentStatus,
			"version":         dto.Version,
			"updated_at":      dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		stored, err := r.storedVersion(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		return errs.NewVersionConflictError("order", aggregate.ID().String(), expectedVersion, stored)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// SaveCourierLocation only overwrites an older position of the bound courier while the
// order is in pickup.
func (r *GormOrderRepository) SaveCourierLocation(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	point := aggregate.CourierLocation()
	courierID := aggregate.Courier()
	if point == nil || courierID == nil {
		return errs.NewValueIsRequiredError("courier location")
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND courier_id = ?", aggregate.ID().Bytes(), order.Pickup.String(), courierID.Bytes()).
		Where("(courier_recorded_at IS NULL OR courier_recorded_at < ?)", point.RecordedAt()).
		Updates(map[string]any{
			"courier_latitude":    point.Latitude(),
			"courier_longitude":   point.Longitude(),
			"courier_recorded_at": point.RecordedAt(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.storedVersion(ctx, aggregate.ID()); err != nil {
			return err
		}
		return order.ErrStaleLocation
	}

	return nil
}

func (r *GormOrderRepository) ListDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("status = ? AND updated_at < ?", order.Delivered.String(), cutoff).
		Order("updated_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("updated_at >= ?", since).
		Order("updated_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *GormOrderRepository) storedVersion(ctx context.Context, id kernel.UUID) (int64, error) {
	var versions []int64
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Pluck("version", &versions).Error; err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, errs.NewObjectNotFoundError("order", id.String())
	}
	return versions[0], nil
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
