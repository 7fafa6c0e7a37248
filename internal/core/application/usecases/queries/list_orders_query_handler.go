package queries

import (
	"context"

	"orderledger/internal/core/domain/model/order"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler lists orders newest change first.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := query.Filter()
	statement := psql.
		Select(orderColumns...).
		From("orders").
		OrderBy("updated_at DESC", "id").
		Limit(MaxListedOrders)

	if filter.BuyerID != nil {
		statement = statement.Where(sq.Eq{"buyer_id": filter.BuyerID.String()})
	}
	if filter.SellerID != nil {
		statement = statement.Where(sq.Eq{"seller_id": filter.SellerID.String()})
	}
	if filter.CourierID != nil {
		own := sq.Eq{"courier_id": filter.CourierID.String()}
		if query.IncludesPool() {
			statement = statement.Where(sq.Or{
				own,
				sq.And{sq.Eq{"courier_id": nil}, sq.Eq{"status": string(order.Ready)}},
			})
		} else {
			statement = statement.Where(own)
		}
	}
	if filter.Status != nil {
		statement = statement.Where(sq.Eq{"status": string(*filter.Status)})
	}

	return fetchOrders(ctx, h.db, statement)
}
