// Package syncengine keeps a client-side view of the orders and balance a session can
// see, with optimistic status changes reconciled against the server.
package syncengine

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
)

// OrderState is the client's copy of an order. Pending marks an optimistic change the
// server has not confirmed yet.
type OrderState struct {
	ID        kernel.UUID
	BuyerID   kernel.UUID
	SellerID  kernel.UUID
	CourierID *kernel.UUID
	Status    order.Status
	Version   int64
	Total     kernel.Money
	UpdatedAt time.Time
	Pending   bool
}

type Balance struct {
	Available kernel.Money
	Pending   kernel.Money
}

// TransitionRequest asks the server to move an order the session can see.
type TransitionRequest struct {
	OrderID         kernel.UUID
	Target          order.Status
	ExpectedVersion int64
	CourierID       *kernel.UUID
}

// Gateway is the transport to the order service. Implementations report failures with
// errors that wrap the errs sentinels, so callers can classify them with errs.KindOf.
type Gateway interface {
	ListOrders(ctx context.Context) ([]OrderState, error)
	GetOrder(ctx context.Context, id kernel.UUID) (OrderState, error)
	ApplyTransition(ctx context.Context, req TransitionRequest) (OrderState, error)
	GetBalance(ctx context.Context) (Balance, error)
}
