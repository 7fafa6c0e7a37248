package ledgerrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderledger/internal/adapters/out/postgres/pgerr"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository serializes writers per account with a row lock on the account
// and must therefore run inside a transaction.
type GormLedgerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormLedgerRepository(db *gorm.DB, tracker aggregateTracker) *GormLedgerRepository {
	return &GormLedgerRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormLedgerRepository) Post(ctx context.Context, entry *wallet.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	account, err := r.lockAccount(ctx, entry.AccountID(), entry.AccountKind(), entry.CreatedAt())
	if err != nil {
		return err
	}
	if account.Kind() != entry.AccountKind() {
		return errs.NewValueIsInvalidErrorWithCause("account kind",
			fmt.Errorf("account %s is %s, entry is for %s", account.ID(), account.Kind(), entry.AccountKind()))
	}

	if err = account.Post(entry, entry.CreatedAt()); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s for order %v on account %s",
				ports.ErrDuplicateEntry, entry.Type(), entry.OrderID(), entry.AccountID())
		}
		return err
	}

	if err = r.saveAccount(ctx, account); err != nil {
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}

func (r *GormLedgerRepository) GetAccount(ctx context.Context, id kernel.UUID) (*wallet.Account, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AccountDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet account", id.String())
		}
		return nil, err
	}

	return accountToDomain(dto)
}

// SettleDue skips entries locked by a concurrent sweep, so two sweeps never settle the
// same entry twice.
func (r *GormLedgerRepository) SettleDue(
	ctx context.Context,
	kind wallet.AccountKind,
	now time.Time,
) ([]wallet.Settlement, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	var due []EntryDTO
	if err := r.db.WithContext(ctx).
		Table("ledger_entries AS e").
		Select("e.*").
		Joins("JOIN wallet_accounts a ON a.id = e.account_id").
		Joins("LEFT JOIN ledger_settlements s ON s.entry_id = e.id").
		Where("a.kind = ? AND e.settles_at IS NOT NULL AND e.settles_at <= ? AND s.entry_id IS NULL", string(kind), now).
		Order("e.account_id, e.settles_at").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "e"}, Options: "SKIP LOCKED"}).
		Find(&due).Error; err != nil {
		return nil, err
	}

	settlements := make([]wallet.Settlement, 0, len(due))
	byAccount := make(map[kernel.UUID][]EntryDTO)
	var accounts []kernel.UUID
	for _, dto := range due {
		id, err := kernel.UUIDFromBytes(dto.AccountID[:])
		if err != nil {
			return nil, err
		}
		if _, seen := byAccount[id]; !seen {
			accounts = append(accounts, id)
		}
		byAccount[id] = append(byAccount[id], dto)
	}

	for _, accountID := range accounts {
		account, err := r.lockAccount(ctx, accountID, kind, now)
		if err != nil {
			return nil, err
		}

		for _, entry := range byAccount[accountID] {
			if err = account.Settle(kernel.Money(entry.Amount), now); err != nil {
				return nil, fmt.Errorf("settle entry %s: %w", entry.ID, err)
			}
			dto := SettlementDTO{EntryID: entry.ID, AccountID: entry.AccountID, Amount: entry.Amount, SettledAt: now}
			if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
				return nil, err
			}
			settlement, err := settlementToDomain(dto)
			if err != nil {
				return nil, err
			}
			settlements = append(settlements, settlement)
		}

		if err = r.saveAccount(ctx, account); err != nil {
			return nil, err
		}
		r.tracker.TrackAggregate(account.ID(), account)
	}

	return settlements, nil
}

// lockAccount opens the account if needed and returns it locked for update.
func (r *GormLedgerRepository) lockAccount(
	ctx context.Context,
	id kernel.UUID,
	kind wallet.AccountKind,
	now time.Time,
) (*wallet.Account, error) {
	opened := AccountDTO{ID: id.Bytes(), Kind: string(kind), UpdatedAt: now}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&opened).Error; err != nil {
		return nil, lockError(id, err)
	}

	var dto AccountDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, lockError(id, err)
	}

	return accountToDomain(dto)
}

// lockError reports a deadlock or serialization failure as a version conflict.
func lockError(id kernel.UUID, err error) error {
	if pgerr.IsLockConflict(err) {
		return fmt.Errorf("%w: account %s is locked by a concurrent writer: %v", errs.ErrVersionConflict, id, err)
	}
	return err
}

func (r *GormLedgerRepository) saveAccount(ctx context.Context, account *wallet.Account) error {
	balance := account.Balance()
	return r.db.WithContext(ctx).
		Model(&AccountDTO{}).
		Where("id = ?", account.ID().Bytes()).
		Updates(map[string]any{
			"available":  balance.Available.Int64(),
			"pending":    balance.Pending.Int64(),
			"version":    account.Version(),
			"updated_at": account.UpdatedAt(),
		}).Error
}
