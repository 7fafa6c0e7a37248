// Package queries contains read operations for retrieving system state.
// Query handlers read straight from the database into read models and never load
// aggregates; writes go through the commands package.
package queries

import (
	"context"
	"database/sql"
	"time"

	"orderledger/internal/core/domain/model/kernel"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// psql builds statements with ? placeholders; GORM rewrites them for the dialect.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// OrderView is the read model of an order as shown to its parties.
type OrderView struct {
	ID              kernel.UUID
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	CourierID       *kernel.UUID
	Items           []OrderItemView
	Subtotal        int64
	DeliveryFee     int64
	Total           int64
	Status          string
	PreviousStatus  string
	PaymentStatus   string
	PaymentMethod   string
	DeliveryAddress string
	Notes           string
	CourierLocation *CourierLocationView
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItemView struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int64
}

type CourierLocationView struct {
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}

var orderColumns = []string{
	"id", "buyer_id", "seller_id", "courier_id",
	"subtotal", "delivery_fee", "total",
	"status", "previous_status", "payment_status", "payment_method",
	"delivery_address", "notes",
	"courier_latitude", "courier_longitude", "courier_recorded_at",
	"version", "created_at", "updated_at",
}

// fetchOrders runs an orders statement selecting orderColumns and attaches the items.
func fetchOrders(ctx context.Context, db *gorm.DB, statement sq.SelectBuilder) ([]OrderView, error) {
	query, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderView, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			view                  OrderView
			id, buyerID, sellerID uuid.UUID
			courierID             uuid.NullUUID
			latitude, longitude   sql.NullFloat64
			recordedAt            sql.NullTime
		)
		if err = rows.Scan(
			&id, &buyerID, &sellerID, &courierID,
			&view.Subtotal, &view.DeliveryFee, &view.Total,
			&view.Status, &view.PreviousStatus, &view.PaymentStatus, &view.PaymentMethod,
			&view.DeliveryAddress, &view.Notes,
			&latitude, &longitude, &recordedAt,
			&view.Version, &view.CreatedAt, &view.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
			return nil, err
		}
		if view.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return nil, err
		}
		if view.CourierID, err = nullableUUID(courierID); err != nil {
			return nil, err
		}
		if latitude.Valid && longitude.Valid && recordedAt.Valid {
			view.CourierLocation = &CourierLocationView{
				Latitude:   latitude.Float64,
				Longitude:  longitude.Float64,
				RecordedAt: recordedAt.Time,
			}
		}

		index[id] = len(orders)
		orders = append(orders, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}
	return orders, attachItems(ctx, db, orders, index)
}

func attachItems(ctx context.Context, db *gorm.DB, orders []OrderView, index map[uuid.UUID]int) error {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id.String())
	}

	query, args, err := psql.
		Select("order_id", "product_id", "name", "quantity", "unit_price").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("order_id", "position").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    OrderItemView
		)
		if err = rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	return rows.Err()
}

func nullableUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil //nolint:nilnil // absent reference
	}
	u, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &u, nil
}
