package ports

import (
	"context"

	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/core/domain/model/kernel"
)

// CourierDirectory knows the registered couriers.
type CourierDirectory interface {
	// Save creates or updates a courier.
	Save(ctx context.Context, c *courier.Courier) error

	// Get returns a courier by id.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// OnDuty returns the ids of couriers currently accepting pickups.
	OnDuty(ctx context.Context) ([]kernel.UUID, error)
}
