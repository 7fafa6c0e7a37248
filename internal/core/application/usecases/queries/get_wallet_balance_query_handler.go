package queries

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// GetWalletBalanceQueryHandler reads available and pending balances. Unknown accounts
// read as zero: accounts open on their first posting.
type GetWalletBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletBalanceQueryHandler(db *gorm.DB) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{db: db}
}

func (h GetWalletBalanceQueryHandler) Handle(ctx context.Context, query GetWalletBalanceQuery) (WalletBalanceView, error) {
	if err := query.Validate(); err != nil {
		return WalletBalanceView{}, err
	}

	view := WalletBalanceView{AccountID: query.AccountID()}

	statement, args, err := psql.
		Select("kind", "available", "pending", "updated_at").
		From("wallet_accounts").
		Where(sq.Eq{"id": query.AccountID().String()}).
		ToSql()
	if err != nil {
		return WalletBalanceView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(statement, args...).Rows()
	if err != nil {
		return WalletBalanceView{}, err
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&view.Kind, &view.Available, &view.Pending, &view.UpdatedAt); err != nil {
			return WalletBalanceView{}, err
		}
	}

	return view, rows.Err()
}
