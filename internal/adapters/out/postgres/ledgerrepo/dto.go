package ledgerrepo

import (
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"

	"github.com/google/uuid"
)

type AccountDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(16);not null;index"`
	Available int64     `gorm:"not null;default:0"`
	Pending   int64     `gorm:"not null;default:0"`
	Version   int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (AccountDTO) TableName() string {
	return "wallet_accounts"
}

type EntryDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID   uuid.UUID  `gorm:"type:uuid;not null"`
	OrderID     *uuid.UUID `gorm:"type:uuid"`
	Type        string     `gorm:"type:varchar(16);not null"`
	Amount      int64      `gorm:"not null"`
	Description string     `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	SettlesAt   *time.Time
}

func (EntryDTO) TableName() string {
	return "ledger_entries"
}

type SettlementDTO struct {
	EntryID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;not null"`
	Amount    int64     `gorm:"not null"`
	SettledAt time.Time `gorm:"not null"`
}

func (SettlementDTO) TableName() string {
	return "ledger_settlements"
}

func entryFromDomain(e *wallet.Entry) EntryDTO {
	var orderID *uuid.UUID
	if e.OrderID() != nil {
		raw := e.OrderID().Bytes()
		orderID = &raw
	}
	return EntryDTO{
		ID:          e.ID().Bytes(),
		AccountID:   e.AccountID().Bytes(),
		OrderID:     orderID,
		Type:        string(e.Type()),
		Amount:      e.Amount().Int64(),
		Description: e.Description(),
		CreatedAt:   e.CreatedAt(),
		SettlesAt:   e.SettlesAt(),
	}
}

func accountToDomain(dto AccountDTO) (*wallet.Account, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return wallet.RestoreAccount(id, wallet.AccountKind(dto.Kind),
		kernel.Money(dto.Available), kernel.Money(dto.Pending), dto.Version, dto.UpdatedAt.UTC())
}

func settlementToDomain(dto SettlementDTO) (wallet.Settlement, error) {
	entryID, err := kernel.UUIDFromBytes(dto.EntryID[:])
	if err != nil {
		return wallet.Settlement{}, err
	}
	accountID, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return wallet.Settlement{}, err
	}
	return wallet.Settlement{
		EntryID:   entryID,
		AccountID: accountID,
		Amount:    kernel.Money(dto.Amount),
		SettledAt: dto.SettledAt.UTC(),
	}, nil
}
