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

type ListLedgerEntriesQueryHandler struct {
	db *gorm.DB
}

func NewListLedgerEntriesQueryHandler(db *gorm.DB) ListLedgerEntriesQueryHandler {
	return ListLedgerEntriesQueryHandler{db: db}
}

// Handle returns the requested page. Deferred entries carry SettledAt once released.
func (h ListLedgerEntriesQueryHandler) Handle(ctx context.Context, query ListLedgerEntriesQuery) (LedgerEntriesPage, error) {
	if err := query.Validate(); err != nil {
		return LedgerEntriesPage{}, err
	}

	where := sq.And{sq.Eq{"e.account_id": query.AccountID().String()}}
	if query.From() != nil {
		where = append(where, sq.GtOrEq{"e.created_at": *query.From()})
	}
	if query.To() != nil {
		where = append(where, sq.LtOrEq{"e.created_at": *query.To()})
	}

	page := LedgerEntriesPage{
		AccountID: query.AccountID(),
		Entries:   make([]LedgerEntryView, 0),
		Page:      query.Page(),
		Limit:     query.Limit(),
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("ledger_entries e").Where(where).ToSql()
	if err != nil {
		return LedgerEntriesPage{}, err
	}
	if err = h.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&page.Total).Error; err != nil {
		return LedgerEntriesPage{}, err
	}
	if page.Total == 0 {
		return page, nil
	}

	statement, args, err := psql.
		Select("e.id", "e.order_id", "e.type", "e.amount", "e.description", "e.created_at", "e.settles_at", "s.settled_at").
		From("ledger_entries e").
		LeftJoin("ledger_settlements s ON s.entry_id = e.id").
		Where(where).
		OrderBy("e.created_at DESC", "e.id").
		Limit(uint64(query.Limit())).
		Offset(uint64((query.Page() - 1) * query.Limit())).
		ToSql()
	if err != nil {
		return LedgerEntriesPage{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(statement, args...).Rows()
	if err != nil {
		return LedgerEntriesPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry                LedgerEntryView
			id                   uuid.UUID
			orderID              uuid.NullUUID
			settlesAt, settledAt sql.NullTime
		)
		if err = rows.Scan(
			&id, &orderID, &entry.Type, &entry.Amount, &entry.Description,
			&entry.CreatedAt, &settlesAt, &settledAt,
		); err != nil {
			return LedgerEntriesPage{}, err
		}
		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return LedgerEntriesPage{}, err
		}
		if entry.OrderID, err = nullableUUID(orderID); err != nil {
			return LedgerEntriesPage{}, err
		}
		entry.SettlesAt = nullableTime(settlesAt)
		entry.SettledAt = nullableTime(settledAt)
		page.Entries = append(page.Entries, entry)
	}

	return page, rows.Err()
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
