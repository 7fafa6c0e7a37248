package queries

import (
	"context"

	"orderledger/internal/core/domain/model/kernel"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCouriersQueryHandler retrieves courier information from the database.
// Uses direct SQL queries for read performance, sorted by name.
type ListCouriersQueryHandler struct {
	db *gorm.DB
}

// NewListCouriersQueryHandler creates a handler for courier queries.
func NewListCouriersQueryHandler(db *gorm.DB) ListCouriersQueryHandler {
	return ListCouriersQueryHandler{db: db}
}

func (h ListCouriersQueryHandler) Handle(ctx context.Context, query ListCouriersQuery) ([]CourierView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statement := psql.Select("id", "name", "on_duty", "updated_at").From("couriers").OrderBy("name", "id")
	if query.OnDutyOnly() {
		statement = statement.Where(sq.Eq{"on_duty": true})
	}

	sqlText, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	couriers := make([]CourierView, 0)
	for rows.Next() {
		var (
			view CourierView
			id   uuid.UUID
		)
		if err = rows.Scan(&id, &view.Name, &view.OnDuty, &view.UpdatedAt); err != nil {
			return nil, err
		}
		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		couriers = append(couriers, view)
	}

	return couriers, rows.Err()
}
