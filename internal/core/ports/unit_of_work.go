package ports

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateEntry is returned when an order-linked ledger entry already exists.
	ErrDuplicateEntry = errors.New("ledger entry already posted")

	// ErrDuplicateNotification is returned when a recipient already holds a notification
	// for the same event.
	ErrDuplicateNotification = errors.New("notification already exists")
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// LedgerRepository returns a LedgerRepository bound to the current transaction.
	LedgerRepository() LedgerRepository

	// NotificationRepository returns a NotificationRepository bound to the current transaction.
	NotificationRepository() NotificationRepository

	// CourierDirectory returns a CourierDirectory bound to the current transaction.
	CourierDirectory() CourierDirectory
}
