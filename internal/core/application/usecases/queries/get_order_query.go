package queries

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of a session.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, session)
//	if err != nil {
//	    return err
//	}
//	view, err := NewGetOrderQueryHandler(db).Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	viewer  ports.Session

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, viewer ports.Session) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), viewer.UserID.Validate(), viewer.Role.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, viewer: viewer, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID  { return q.orderID }
func (q GetOrderQuery) Viewer() ports.Session { return q.viewer }
