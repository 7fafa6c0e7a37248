package notificationrepo_test

import (
	"context"
	"testing"
	"time"

	"orderledger/internal/adapters/out/postgres/notificationrepo"
	"orderledger/internal/adapters/out/postgres/pgtest"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

type NotificationRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *notificationrepo.GormNotificationRepository
	tracker    *MockAggregateTracker
	now        time.Time
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.pg = pg
	suite.Require().NoError(err)
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = notificationrepo.NewGormNotificationRepository(suite.pg.DB, suite.tracker)
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()
	n := suite.newNotification(kernel.NewUUID(), "order:1:v2:ready")

	suite.Require().NoError(suite.repository.Add(ctx, n))

	stored, err := suite.repository.Get(ctx, n.ID())
	suite.Require().NoError(err)
	suite.Equal(n.RecipientID(), stored.RecipientID())
	suite.Equal(notification.TypeOrderReady, stored.Type())
	suite.Equal("Order ready", stored.Title())
	suite.Equal(n.EventKey(), stored.EventKey())
	suite.Require().NotNil(stored.OrderID())
	suite.Equal(*n.OrderID(), *stored.OrderID())
	suite.False(stored.IsRead())
	suite.False(stored.IsCleared())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", n.ID(), n)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAdd_SameEventForSameRecipient_IsDuplicate() {
	ctx := context.Background()
	recipient := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newNotification(recipient, "order:1:v5:completed")))

	err := suite.repository.Add(ctx, suite.newNotification(recipient, "order:1:v5:completed"))
	suite.Require().ErrorIs(err, ports.ErrDuplicateNotification)

	// another recipient may hold the same event
	suite.Require().NoError(suite.repository.Add(ctx, suite.newNotification(kernel.NewUUID(), "order:1:v5:completed")))
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestMarkRead_IsScopedToRecipient() {
	ctx := context.Background()
	recipient := kernel.NewUUID()
	n := suite.newNotification(recipient, "order:1:v2:ready")
	suite.Require().NoError(suite.repository.Add(ctx, n))

	err := suite.repository.MarkRead(ctx, n.ID(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(suite.repository.MarkRead(ctx, n.ID(), recipient))
	stored, err := suite.repository.Get(ctx, n.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsRead())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestMarkAllRead_And_Clear() {
	ctx := context.Background()
	recipient := kernel.NewUUID()
	other := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newNotification(recipient, "a")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newNotification(recipient, "b")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newNotification(other, "a")))

	changed, err := suite.repository.MarkAllRead(ctx, recipient)
	suite.Require().NoError(err)
	suite.Equal(int64(2), changed)

	changed, err = suite.repository.MarkAllRead(ctx, recipient)
	suite.Require().NoError(err)
	suite.Zero(changed)

	cleared, err := suite.repository.Clear(ctx, recipient, suite.now)
	suite.Require().NoError(err)
	suite.Equal(int64(2), cleared)

	var visible int64
	suite.Require().NoError(suite.pg.DB.Table("notifications").
		Where("cleared_at IS NULL").Count(&visible).Error)
	suite.Equal(int64(1), visible)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestMarkRead_ClearedNotification_IsNotFound() {
	ctx := context.Background()
	recipient := kernel.NewUUID()
	n := suite.newNotification(recipient, "order:1:v3:pickup")
	suite.Require().NoError(suite.repository.Add(ctx, n))
	_, err := suite.repository.Clear(ctx, recipient, suite.now)
	suite.Require().NoError(err)

	suite.Require().ErrorIs(suite.repository.MarkRead(ctx, n.ID(), recipient), errs.ErrObjectNotFound)
}

func (suite *NotificationRepositoryIntegrationTestSuite) newNotification(recipient kernel.UUID, key string) *notification.Notification {
	orderID := kernel.NewUUID()
	n, err := notification.NewNotification(kernel.NewUUID(), notification.Message{
		RecipientID: recipient,
		Type:        notification.TypeOrderReady,
		Title:       "Order ready",
		Body:        "Order is ready for pickup",
		OrderID:     &orderID,
		EventKey:    key,
	}, suite.now)
	suite.Require().NoError(err)
	return n
}

func TestNotificationRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(NotificationRepositoryIntegrationTestSuite))
}
