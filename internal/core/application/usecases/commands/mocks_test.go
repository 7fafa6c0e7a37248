package commands_test

import (
	"context"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expectedVersion int64) error {
	args := m.Called(ctx, o, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) SaveCourierLocation(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) ListDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, since)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockLedgerRepository struct{ mock.Mock }

func (m *MockLedgerRepository) Post(ctx context.Context, entry *wallet.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetAccount(ctx context.Context, id kernel.UUID) (*wallet.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*wallet.Account)
	return account, args.Error(1)
}

func (m *MockLedgerRepository) SettleDue(ctx context.Context, kind wallet.AccountKind, now time.Time) ([]wallet.Settlement, error) {
	args := m.Called(ctx, kind, now)
	settlements, _ := args.Get(0).([]wallet.Settlement)
	return settlements, args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID kernel.UUID) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Clear(ctx context.Context, recipientID kernel.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, recipientID, at)
	return args.Get(0).(int64), args.Error(1)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) Save(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierDirectory) OnDuty(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

// MockUoW satisfies every narrow unit of work interface of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) LedgerRepository() ports.LedgerRepository {
	args := m.Called()
	return args.Get(0).(ports.LedgerRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

func (m *MockUoW) CourierDirectory() ports.CourierDirectory {
	args := m.Called()
	return args.Get(0).(ports.CourierDirectory)
}

type MockOrderUoWFactory struct{ uow *MockUoW }

func (f MockOrderUoWFactory) Create() commands.OrderUoW { return f.uow }

type MockOrderLedgerUoWFactory struct{ uow *MockUoW }

func (f MockOrderLedgerUoWFactory) Create() commands.OrderLedgerUoW { return f.uow }

type MockLedgerUoWFactory struct{ uow *MockUoW }

func (f MockLedgerUoWFactory) Create() commands.LedgerUoW { return f.uow }

type MockNotificationUoWFactory struct{ uow *MockUoW }

func (f MockNotificationUoWFactory) Create() commands.NotificationUoW { return f.uow }

type MockCourierUoWFactory struct{ uow *MockUoW }

func (f MockCourierUoWFactory) Create() commands.CourierUoW { return f.uow }

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) OrderTransitioned(ctx context.Context, change order.StatusChanged) {
	m.Called(ctx, change)
}

func (m *MockNotifier) EntriesSettled(ctx context.Context, settled []wallet.SettledAccount) {
	m.Called(ctx, settled)
}

func (m *MockNotifier) LedgerAdjusted(ctx context.Context, entry *wallet.Entry) {
	m.Called(ctx, entry)
}
