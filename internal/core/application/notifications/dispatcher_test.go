package notifications_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderledger/internal/core/application/notifications"
	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type stubUoW struct {
	notifications *MockNotificationRepository
	couriers      *MockCourierDirectory
}

func (u stubUoW) NotificationRepository() ports.NotificationRepository { return u.notifications }
func (u stubUoW) CourierDirectory() ports.CourierDirectory             { return u.couriers }

type stubFactory struct{ uow stubUoW }

func (f stubFactory) Create() notifications.UnitOfWork { return f.uow }

var platformInbox = kernel.MustUUIDFromString("00000000-0000-4000-8000-000000000001")

func newDispatcher() (*notifications.Dispatcher, *MockNotificationRepository, *MockCourierDirectory) {
	repo := new(MockNotificationRepository)
	couriers := new(MockCourierDirectory)
	d := notifications.NewDispatcher(
		stubFactory{stubUoW{notifications: repo, couriers: couriers}},
		services.NewNotificationPlanner(platformInbox),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return d, repo, couriers
}

func change(to order.Status, courierID *kernel.UUID) order.StatusChanged {
	return order.StatusChanged{
		OrderID:   kernel.NewUUID(),
		BuyerID:   kernel.NewUUID(),
		SellerID:  kernel.NewUUID(),
		CourierID: courierID,
		From:      order.Delivered,
		To:        to,
		Role:      order.RoleBuyer,
		Version:   5,
		Total:     52000,
		At:        time.Now(),
	}
}

func recipient(id kernel.UUID) any {
	return mock.MatchedBy(func(n *notification.Notification) bool { return n.RecipientID().IsEqual(id) })
}

func TestDispatcher_OrderTransitioned_Completed(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	c := change(order.Completed, &courierID)
	d, repo, couriers := newDispatcher()

	repo.On("Add", ctx, recipient(c.BuyerID)).Return(nil).Once()
	repo.On("Add", ctx, recipient(c.SellerID)).Return(nil).Once()
	repo.On("Add", ctx, recipient(courierID)).Return(nil).Once()
	repo.On("Add", ctx, recipient(platformInbox)).Return(nil).Once()

	d.OrderTransitioned(ctx, c)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "Add", 4)
	couriers.AssertNotCalled(t, "OnDuty", mock.Anything)
}

func TestDispatcher_OrderTransitioned_ReadyFansOutToCourierPool(t *testing.T) {
	ctx := t.Context()
	c := change(order.Ready, nil)
	pool := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	d, repo, couriers := newDispatcher()

	couriers.On("OnDuty", ctx).Return(pool, nil).Once()
	repo.On("Add", ctx, mock.Anything).Return(nil)

	d.OrderTransitioned(ctx, c)

	repo.AssertNumberOfCalls(t, "Add", 3)
	repo.AssertCalled(t, "Add", ctx, recipient(pool[0]))
	repo.AssertCalled(t, "Add", ctx, recipient(pool[1]))
	repo.AssertCalled(t, "Add", ctx, recipient(c.BuyerID))
}

func TestDispatcher_OrderTransitioned_CourierPoolUnavailable(t *testing.T) {
	ctx := t.Context()
	c := change(order.Ready, nil)
	d, repo, couriers := newDispatcher()

	couriers.On("OnDuty", ctx).Return(nil, errors.New("timeout")).Once()
	repo.On("Add", ctx, recipient(c.BuyerID)).Return(nil).Once()

	d.OrderTransitioned(ctx, c)

	repo.AssertExpectations(t)
}

func TestDispatcher_FailuresDoNotStopFanOut(t *testing.T) {
	ctx := t.Context()
	c := change(order.Pickup, nil)
	d, repo, _ := newDispatcher()

	failedBefore := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed))
	repo.On("Add", ctx, recipient(c.BuyerID)).Return(errors.New("connection reset")).Once()
	repo.On("Add", ctx, recipient(c.SellerID)).Return(nil).Once()

	d.OrderTransitioned(ctx, c)

	repo.AssertExpectations(t)
	assert.InDelta(t, failedBefore+1,
		testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues(metrics.ResultFailed)), 0)
}

func TestDispatcher_Notify_DuplicateIsNotAnError(t *testing.T) {
	ctx := t.Context()
	d, repo, _ := newDispatcher()
	msg := notification.Message{
		RecipientID: kernel.NewUUID(),
		Type:        notification.TypeOrderDelivered,
		Title:       "Order delivered",
		EventKey:    "order:x:v4:delivered",
	}

	duplicatesBefore := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues(metrics.ResultDuplicate))
	repo.On("Add", ctx, mock.Anything).Return(ports.ErrDuplicateNotification).Once()

	require.NoError(t, d.Notify(ctx, msg))
	assert.InDelta(t, duplicatesBefore+1,
		testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues(metrics.ResultDuplicate)), 0)
}

func TestDispatcher_Notify_RejectsIncompleteMessage(t *testing.T) {
	d, repo, _ := newDispatcher()

	err := d.Notify(t.Context(), notification.Message{RecipientID: kernel.NewUUID(), Type: notification.TypeRefund})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestDispatcher_EntriesSettledAndLedgerAdjusted(t *testing.T) {
	ctx := t.Context()
	d, repo, _ := newDispatcher()
	seller, courierAcct := kernel.NewUUID(), kernel.NewUUID()

	repo.On("Add", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type() == notification.TypePayoutAvailable
	})).Return(nil).Twice()
	repo.On("Add", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type() == notification.TypeWalletAdjusted && n.RecipientID().IsEqual(seller)
	})).Return(nil).Once()

	now := time.Now()
	d.EntriesSettled(ctx, []wallet.SettledAccount{
		{AccountID: seller, Kind: wallet.KindSeller, Amount: 37800, Entries: 1, SettledAt: now},
		{AccountID: courierAcct, Kind: wallet.KindCourier, Amount: 8000, Entries: 1, SettledAt: now},
	})

	entry, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID:   seller,
		AccountKind: wallet.KindSeller,
		Type:        wallet.TypeWithdrawal,
		Amount:      -20000,
		Description: "withdrawal",
	}, now)
	require.NoError(t, err)
	d.LedgerAdjusted(ctx, entry)

	repo.AssertExpectations(t)
}
