package order

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
)

// StatusChanged describes one accepted transition. It is produced by Order.Transition
// and consumed by the ledger settlement and notification fan-out.
type StatusChanged struct {
	OrderID   kernel.UUID
	BuyerID   kernel.UUID
	SellerID  kernel.UUID
	CourierID *kernel.UUID
	From      Status
	To        Status
	Role      Role
	Actor     kernel.UUID
	Version   int64
	Total     kernel.Money
	Note      string
	At        time.Time
}

// IsSettlement reports whether the transition moves money.
func (e StatusChanged) IsSettlement() bool {
	return e.To == Completed
}

// IsCreation reports whether the change describes a freshly created order.
func (e StatusChanged) IsCreation() bool {
	return e.From == "" && e.To == Preparing
}
