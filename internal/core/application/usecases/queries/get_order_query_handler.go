package queries

import (
	"context"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// GetOrderQueryHandler returns an order to its buyer, seller, bound courier and
// operators. Couriers may also see unassigned ready orders they could pick up.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	orders, err := fetchOrders(ctx, h.db, psql.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": query.OrderID().String()}))
	if err != nil {
		return OrderView{}, err
	}
	if len(orders) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	view := orders[0]
	if !canView(view, query.Viewer()) {
		return OrderView{}, errs.NewAccessDeniedError("orderId", "order belongs to other users")
	}
	return view, nil
}

func canView(view OrderView, viewer ports.Session) bool {
	switch {
	case viewer.Role == order.RoleAdmin, viewer.Role == order.RoleSystem:
		return true
	case viewer.UserID.IsEqual(view.BuyerID), viewer.UserID.IsEqual(view.SellerID):
		return true
	case view.CourierID != nil:
		return viewer.UserID.IsEqual(*view.CourierID)
	default:
		return viewer.Role == order.RoleCourier && view.Status == string(order.Ready)
	}
}
