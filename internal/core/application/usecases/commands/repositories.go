// Package commands contains business operations that modify system state.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	CourierDirectoryFactory interface {
		CourierDirectory() ports.CourierDirectory
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderLedgerUoW manages transactions that change an order and post ledger entries
	// together, so a failed posting rolls the order change back.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.OrderRepository().Update(ctx, o, expectedVersion)
	//   err = uow.LedgerRepository().Post(ctx, entry)
	//
	//   err = uow.Commit(ctx)
	OrderLedgerUoW interface {
		TxManager
		OrderRepoFactory
		LedgerRepoFactory
	}

	OrderLedgerUoWFactory interface {
		Create() OrderLedgerUoW
	}

	// LedgerUoW manages transactions for ledger-only operations.
	LedgerUoW interface {
		TxManager
		LedgerRepoFactory
	}

	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// NotificationUoW manages inbox changes.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	NotificationUoWFactory interface {
		Create() NotificationUoW
	}

	// CourierUoW manages courier directory changes.
	CourierUoW interface {
		TxManager
		CourierDirectoryFactory
	}

	CourierUoWFactory interface {
		Create() CourierUoW
	}
)

// Notifier fans committed changes out to recipients. Implementations are best-effort:
// they never fail the command that called them.
type Notifier interface {
	OrderTransitioned(ctx context.Context, change order.StatusChanged)
	EntriesSettled(ctx context.Context, settled []wallet.SettledAccount)
	LedgerAdjusted(ctx context.Context, entry *wallet.Entry)
}
