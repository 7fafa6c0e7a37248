package courierrepo

import (
	"context"
	"errors"

	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierDirectory stores the courier directory.
type GormCourierDirectory struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormCourierDirectory(db *gorm.DB, tracker aggregateTracker) *GormCourierDirectory {
	return &GormCourierDirectory{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormCourierDirectory) Save(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "on_duty", "updated_at"}),
		}).
		Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormCourierDirectory) OnDuty(ctx context.Context) ([]kernel.UUID, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("on_duty = ?", true).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
