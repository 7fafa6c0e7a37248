package queries_test

import (
	"context"
	"testing"
	"time"

	"orderledger/internal/adapters/out/postgres/courierrepo"
	"orderledger/internal/adapters/out/postgres/ledgerrepo"
	"orderledger/internal/adapters/out/postgres/notificationrepo"
	"orderledger/internal/adapters/out/postgres/orderrepo"
	"orderledger/internal/adapters/out/postgres/pgtest"
	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/courier"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/notification"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type QueriesIntegrationTestSuite struct {
	suite.Suite
	pg  *pgtest.Database
	now time.Time
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.pg = pg
	suite.Require().NoError(err)
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

// placeOrder stores a 3x10000 + 12000 order with a 10000 fee, moved forward by steps.
func (suite *QueriesIntegrationTestSuite) placeOrder(buyer, seller kernel.UUID, steps ...order.TransitionRequest) *order.Order {
	item1, err := order.NewLineItem("sku-1", "Keripik", 3, 10000)
	suite.Require().NoError(err)
	item2, err := order.NewLineItem("sku-2", "Sambal", 1, 12000)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), order.Draft{
		BuyerID:         buyer,
		SellerID:        seller,
		Items:           []order.LineItem{item1, item2},
		DeliveryFee:     10000,
		DeliveryAddress: "Jl. Merdeka 1",
		PaymentMethod:   order.PaymentCash,
	}, suite.now)
	suite.Require().NoError(err)

	repo := orderrepo.NewGormOrderRepository(suite.pg.DB, noopTracker{})
	suite.Require().NoError(repo.Add(context.Background(), o))
	for _, step := range steps {
		expected := o.Version()
		step.At = suite.now
		_, err = o.Transition(step)
		suite.Require().NoError(err)
		suite.Require().NoError(repo.Update(context.Background(), o, expected))
	}
	return o
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_VisibleToPartiesOnly() {
	ctx := context.Background()
	buyer, seller := kernel.NewUUID(), kernel.NewUUID()
	o := suite.placeOrder(buyer, seller)
	handler := queries.NewGetOrderQueryHandler(suite.pg.DB)

	query, err := queries.NewGetOrderQuery(o.ID(), ports.Session{UserID: buyer, Role: order.RoleBuyer})
	suite.Require().NoError(err)
	view, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(int64(52000), view.Total)
	suite.Equal("preparing", view.Status)
	suite.Equal(int64(1), view.Version)
	suite.Require().Len(view.Items, 2)
	suite.Equal("sku-1", view.Items[0].ProductID)
	suite.Nil(view.CourierID)

	query, err = queries.NewGetOrderQuery(o.ID(), ports.Session{UserID: kernel.NewUUID(), Role: order.RoleBuyer})
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrAccessDenied)

	query, err = queries.NewGetOrderQuery(kernel.NewUUID(), ports.Session{UserID: buyer, Role: order.RoleBuyer})
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_RoleScopes() {
	ctx := context.Background()
	buyer, seller, otherSeller := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	courierA, courierB := kernel.NewUUID(), kernel.NewUUID()

	preparing := suite.placeOrder(buyer, seller)
	ready := suite.placeOrder(buyer, otherSeller,
		order.TransitionRequest{Role: order.RoleSeller, Actor: otherSeller, Target: order.Ready})
	pickedByA := suite.placeOrder(kernel.NewUUID(), seller,
		order.TransitionRequest{Role: order.RoleSeller, Actor: seller, Target: order.Ready},
		order.TransitionRequest{Role: order.RoleCourier, Actor: courierA, Target: order.Pickup})
	suite.placeOrder(kernel.NewUUID(), otherSeller,
		order.TransitionRequest{Role: order.RoleSeller, Actor: otherSeller, Target: order.Ready},
		order.TransitionRequest{Role: order.RoleCourier, Actor: courierB, Target: order.Pickup})

	handler := queries.NewListOrdersQueryHandler(suite.pg.DB)
	list := func(session ports.Session, filter queries.OrderFilter) []kernel.UUID {
		query, err := queries.NewListOrdersQuery(session, filter)
		suite.Require().NoError(err)
		views, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		ids := make([]kernel.UUID, 0, len(views))
		for _, v := range views {
			ids = append(ids, v.ID)
		}
		return ids
	}

	suite.ElementsMatch([]kernel.UUID{preparing.ID(), ready.ID()},
		list(ports.Session{UserID: buyer, Role: order.RoleBuyer}, queries.OrderFilter{}))
	suite.ElementsMatch([]kernel.UUID{preparing.ID(), pickedByA.ID()},
		list(ports.Session{UserID: seller, Role: order.RoleSeller}, queries.OrderFilter{}))
	suite.ElementsMatch([]kernel.UUID{pickedByA.ID(), ready.ID()},
		list(ports.Session{UserID: courierA, Role: order.RoleCourier}, queries.OrderFilter{}))
	suite.ElementsMatch([]kernel.UUID{pickedByA.ID()},
		list(ports.Session{UserID: courierA, Role: order.RoleCourier}, queries.OrderFilter{CourierID: &courierA}))

	pickup := order.Pickup
	suite.Len(list(ports.Session{UserID: kernel.NewUUID(), Role: order.RoleAdmin}, queries.OrderFilter{}), 4)
	suite.Len(list(ports.Session{UserID: kernel.NewUUID(), Role: order.RoleAdmin}, queries.OrderFilter{Status: &pickup}), 2)
}

func (suite *QueriesIntegrationTestSuite) TestWalletBalanceAndEntries() {
	ctx := context.Background()
	accountID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	suite.Require().NoError(suite.pg.DB.Transaction(func(tx *gorm.DB) error {
		repo := ledgerrepo.NewGormLedgerRepository(tx, noopTracker{})
		postings := []wallet.Posting{
			{AccountID: accountID, AccountKind: wallet.KindSeller, Type: wallet.TypeAdjustment, Amount: 50000, Description: "opening"},
			{AccountID: accountID, AccountKind: wallet.KindSeller, Type: wallet.TypeWithdrawal, Amount: -20000, Description: "withdrawal"},
			{
				AccountID: accountID, AccountKind: wallet.KindSeller, OrderID: &orderID,
				Type: wallet.TypeEarning, Amount: 37800, SettlesAt: ptr(suite.now.Add(time.Hour)),
			},
		}
		for i, p := range postings {
			entry, err := wallet.NewEntry(kernel.NewUUID(), p, suite.now.Add(time.Duration(i)*time.Second))
			if err != nil {
				return err
			}
			if err = repo.Post(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	}))

	balanceQuery, err := queries.NewGetWalletBalanceQuery(accountID)
	suite.Require().NoError(err)
	balance, err := queries.NewGetWalletBalanceQueryHandler(suite.pg.DB).Handle(ctx, balanceQuery)
	suite.Require().NoError(err)
	suite.Equal("seller", balance.Kind)
	suite.Equal(int64(30000), balance.Available)
	suite.Equal(int64(37800), balance.Pending)

	unknownQuery, err := queries.NewGetWalletBalanceQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	unknown, err := queries.NewGetWalletBalanceQueryHandler(suite.pg.DB).Handle(ctx, unknownQuery)
	suite.Require().NoError(err)
	suite.Zero(unknown.Available)
	suite.Zero(unknown.Pending)

	entriesHandler := queries.NewListLedgerEntriesQueryHandler(suite.pg.DB)
	firstPage, err := queries.NewListLedgerEntriesQuery(accountID, 1, 2, nil, nil)
	suite.Require().NoError(err)
	page, err := entriesHandler.Handle(ctx, firstPage)
	suite.Require().NoError(err)
	suite.Equal(int64(3), page.Total)
	suite.Require().Len(page.Entries, 2)
	suite.Equal("earning", page.Entries[0].Type)
	suite.NotNil(page.Entries[0].SettlesAt)
	suite.Nil(page.Entries[0].SettledAt)
	suite.True(page.Entries[0].OrderID.IsEqual(orderID))

	secondPage, err := queries.NewListLedgerEntriesQuery(accountID, 2, 2, nil, nil)
	suite.Require().NoError(err)
	page, err = entriesHandler.Handle(ctx, secondPage)
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Equal(int64(50000), page.Entries[0].Amount)

	from := suite.now.Add(500 * time.Millisecond)
	ranged, err := queries.NewListLedgerEntriesQuery(accountID, 1, 10, &from, nil)
	suite.Require().NoError(err)
	page, err = entriesHandler.Handle(ctx, ranged)
	suite.Require().NoError(err)
	suite.Equal(int64(2), page.Total)
}

func (suite *QueriesIntegrationTestSuite) TestListNotifications_ExcludesCleared() {
	ctx := context.Background()
	recipient := kernel.NewUUID()
	repo := notificationrepo.NewGormNotificationRepository(suite.pg.DB, noopTracker{})

	add := func(key string, at time.Time) *notification.Notification {
		n, err := notification.NewNotification(kernel.NewUUID(), notification.Message{
			RecipientID: recipient,
			Type:        notification.TypeOrderDelivered,
			Title:       "Order delivered",
			EventKey:    key,
		}, at)
		suite.Require().NoError(err)
		suite.Require().NoError(repo.Add(ctx, n))
		return n
	}

	add("k1", suite.now.Add(-time.Hour))
	_, err := repo.Clear(ctx, recipient, suite.now.Add(-30*time.Minute))
	suite.Require().NoError(err)
	second := add("k2", suite.now.Add(-time.Minute))
	third := add("k3", suite.now)
	suite.Require().NoError(repo.MarkRead(ctx, second.ID(), recipient))

	handler := queries.NewListNotificationsQueryHandler(suite.pg.DB)

	all, err := queries.NewListNotificationsQuery(recipient, false, 0)
	suite.Require().NoError(err)
	views, err := handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.True(views[0].ID.IsEqual(third.ID()))
	suite.True(views[1].Read)

	unread, err := queries.NewListNotificationsQuery(recipient, true, 10)
	suite.Require().NoError(err)
	views, err = handler.Handle(ctx, unread)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.True(views[0].ID.IsEqual(third.ID()))
}

func (suite *QueriesIntegrationTestSuite) TestListCouriers() {
	ctx := context.Background()
	directory := courierrepo.NewGormCourierDirectory(suite.pg.DB, noopTracker{})

	ani, err := courier.NewCourier(kernel.NewUUID(), "Ani", suite.now)
	suite.Require().NoError(err)
	ani.SetOnDuty(true, suite.now)
	budi, err := courier.NewCourier(kernel.NewUUID(), "Budi", suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(directory.Save(ctx, ani))
	suite.Require().NoError(directory.Save(ctx, budi))

	handler := queries.NewListCouriersQueryHandler(suite.pg.DB)

	all, err := handler.Handle(ctx, queries.NewListCouriersQuery(false))
	suite.Require().NoError(err)
	suite.Require().Len(all, 2)
	suite.Equal("Ani", all[0].Name)

	onDuty, err := handler.Handle(ctx, queries.NewListCouriersQuery(true))
	suite.Require().NoError(err)
	suite.Require().Len(onDuty, 1)
	suite.True(onDuty[0].ID.IsEqual(ani.ID()))
}

func TestQueriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
