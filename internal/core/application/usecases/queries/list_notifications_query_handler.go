package queries

import (
	"context"

	"orderledger/internal/core/domain/model/kernel"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewListNotificationsQueryHandler(db *gorm.DB) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{db: db}
}

func (h ListNotificationsQueryHandler) Handle(ctx context.Context, query ListNotificationsQuery) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statement := psql.
		Select("id", "type", "title", "body", "order_id", "read", "created_at").
		From("notifications").
		Where(sq.Eq{"recipient_id": query.RecipientID().String(), "cleared_at": nil}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(query.Limit()))
	if query.UnreadOnly() {
		statement = statement.Where(sq.Eq{"read": false})
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

	views := make([]NotificationView, 0)
	for rows.Next() {
		var (
			view    NotificationView
			id      uuid.UUID
			orderID uuid.NullUUID
		)
		if err = rows.Scan(&id, &view.Type, &view.Title, &view.Body, &orderID, &view.Read, &view.CreatedAt); err != nil {
			return nil, err
		}
		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.OrderID, err = nullableUUID(orderID); err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}
