package queries

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/guard"
)

var ErrListCouriersQueryIsNotConstructed = errors.New(
	"ListCouriersQuery must be created via NewListCouriersQuery constructor",
)

// ListCouriersQuery retrieves registered couriers for operators.
//
// Example:
//
//	query := NewListCouriersQuery(true)
//	couriers, err := NewListCouriersQueryHandler(db).Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//	fmt.Printf("%d couriers on duty\n", len(couriers))
type ListCouriersQuery struct {
	onDutyOnly bool

	guard guard.ConstructorGuard
}

// NewListCouriersQuery creates a query over all couriers, or only those on duty.
func NewListCouriersQuery(onDutyOnly bool) ListCouriersQuery {
	return ListCouriersQuery{onDutyOnly: onDutyOnly, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrListCouriersQueryIsNotConstructed if validation fails.
func (q ListCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListCouriersQueryIsNotConstructed)
}

func (q ListCouriersQuery) OnDutyOnly() bool {
	return q.onDutyOnly
}

type CourierView struct {
	ID        kernel.UUID
	Name      string
	OnDuty    bool
	UpdatedAt time.Time
}
