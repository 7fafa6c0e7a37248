package queries

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// MaxListedOrders bounds a single ListOrders result.
const MaxListedOrders = 200

// OrderFilter narrows a listing. Nil fields do not filter.
type OrderFilter struct {
	BuyerID   *kernel.UUID
	SellerID  *kernel.UUID
	CourierID *kernel.UUID
	Status    *order.Status
}

// ListOrdersQuery lists the orders a session may see, narrowed by filter.
//
// Operators see every order. Buyers and sellers see their own orders and may not name
// another user in the filter. Couriers see the orders bound to them plus the unassigned
// ready pool, unless the filter names them as courier explicitly.
type ListOrdersQuery struct {
	viewer ports.Session
	filter OrderFilter
	pool   bool

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(viewer ports.Session, filter OrderFilter) (ListOrdersQuery, error) {
	if err := errors.Join(viewer.UserID.Validate(), viewer.Role.Validate()); err != nil {
		return ListOrdersQuery{}, err
	}
	if filter.Status != nil {
		if err := filter.Status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	q := ListOrdersQuery{viewer: viewer, filter: filter, guard: guard.NewConstructorGuard()}
	self := viewer.UserID

	switch viewer.Role {
	case order.RoleAdmin, order.RoleSystem:
	case order.RoleBuyer:
		if err := ownScope("userId", filter.BuyerID, self); err != nil {
			return ListOrdersQuery{}, err
		}
		q.filter.BuyerID = &self
	case order.RoleSeller:
		if err := ownScope("umkmId", filter.SellerID, self); err != nil {
			return ListOrdersQuery{}, err
		}
		q.filter.SellerID = &self
	case order.RoleCourier:
		if err := ownScope("driverId", filter.CourierID, self); err != nil {
			return ListOrdersQuery{}, err
		}
		q.pool = filter.CourierID == nil
		q.filter.CourierID = &self
	}

	return q, nil
}

func ownScope(param string, requested *kernel.UUID, self kernel.UUID) error {
	if requested != nil && !requested.IsEqual(self) {
		return errs.NewAccessDeniedError(param, "only your own orders can be listed")
	}
	return nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() OrderFilter { return q.filter }

// IncludesPool reports whether unassigned ready orders are listed as well.
func (q ListOrdersQuery) IncludesPool() bool { return q.pool }
