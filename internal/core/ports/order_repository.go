// Package ports defines the contracts between the marketplace core and its infrastructure.
package ports

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a transitioned order only if the stored version still equals
	// expectedVersion. A mismatch is reported as a VersionConflictError carrying the
	// stored version; a missing order as ObjectNotFoundError.
	Update(ctx context.Context, aggregate *order.Order, expectedVersion int64) error

	// Get retrieves an order by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// SaveCourierLocation stores the order's live courier position unless a newer one
	// is already stored.
	SaveCourierLocation(ctx context.Context, aggregate *order.Order) error

	// ListDeliveredBefore returns up to limit orders that have been in delivered status
	// since before cutoff, oldest first.
	ListDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)

	// ListUpdatedSince returns orders whose last change happened at or after since.
	ListUpdatedSince(ctx context.Context, since time.Time) ([]*order.Order, error)
}
