package cmd

import (
	"log/slog"

	httpin "orderledger/internal/adapters/in/http"
	"orderledger/internal/adapters/out/postgres"
	"orderledger/internal/core/application/notifications"
	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	policy     services.CommissionPolicy
	dispatcher *notifications.Dispatcher
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := services.NewCommissionPolicy(
		config.SellerCommissionPct,
		config.CourierCommissionPct,
		config.SettlementDelay,
		config.PlatformAccountID,
	)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		policy:     policy,
		logger:     logger,
	}

	var inboxFactory notifications.UnitOfWorkFactory = FuncInboxUoWFactory(func() notifications.UnitOfWork {
		return c.uowFactory.Create()
	})
	c.dispatcher = notifications.NewDispatcher(inboxFactory, services.NewNotificationPlanner(config.PlatformAccountID), logger)
	return c, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderLedgerUoWFactory() commands.OrderLedgerUoWFactory {
	return FuncOrderLedgerUoWFactory(func() commands.OrderLedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), kernel.Money(c.config.DeliveryFeeFloor), c.dispatcher)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderLedgerUoWFactory(), c.policy, c.dispatcher)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAutoCompleteOrdersCommandHandler() commands.AutoCompleteOrdersCommandHandler {
	return commands.NewAutoCompleteOrdersCommandHandler(c.orderLedgerUoWFactory(), c.policy, c.dispatcher)
}

func (c *CompositionRoot) CreatePostLedgerAdjustmentCommandHandler() commands.PostLedgerAdjustmentCommandHandler {
	return commands.NewPostLedgerAdjustmentCommandHandler(c.ledgerUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateRequestWithdrawalCommandHandler() commands.RequestWithdrawalCommandHandler {
	return commands.NewRequestWithdrawalCommandHandler(c.ledgerUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateSettleLedgerCommandHandler() commands.SettleLedgerCommandHandler {
	return commands.NewSettleLedgerCommandHandler(c.ledgerUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateReconcileNotificationsCommandHandler() commands.ReconcileNotificationsCommandHandler {
	return commands.NewReconcileNotificationsCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateSetCourierDutyCommandHandler() commands.SetCourierDutyCommandHandler {
	return commands.NewSetCourierDutyCommandHandler(c.courierUoWFactory())
}

// CreateHTTPServer wires every use case behind the HTTP API.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		ChangeOrderStatus:     c.CreateChangeOrderStatusCommandHandler(),
		UpdateCourierLocation: c.CreateUpdateCourierLocationCommandHandler(),
		PostAdjustment:        c.CreatePostLedgerAdjustmentCommandHandler(),
		RequestWithdrawal:     c.CreateRequestWithdrawalCommandHandler(),
		MarkRead:              commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory()),
		MarkAllRead:           commands.NewMarkAllNotificationsReadCommandHandler(c.notificationUoWFactory()),
		ClearNotifications:    commands.NewClearNotificationsCommandHandler(c.notificationUoWFactory()),
		SetCourierDuty:        c.CreateSetCourierDutyCommandHandler(),
		GetOrder:              queries.NewGetOrderQueryHandler(c.gormDB),
		ListOrders:            queries.NewListOrdersQueryHandler(c.gormDB),
		GetWalletBalance:      queries.NewGetWalletBalanceQueryHandler(c.gormDB),
		ListLedgerEntries:     queries.NewListLedgerEntriesQueryHandler(c.gormDB),
		ListNotifications:     queries.NewListNotificationsQueryHandler(c.gormDB),
		ListCouriers:          queries.NewListCouriersQueryHandler(c.gormDB),
	}, c.logger)
}

// CreateJobManager schedules settlement, notification reconciliation and auto-completion.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	settle := c.CreateSettleLedgerCommandHandler()
	return jobs.NewJobManager(
		jobs.NewSettlementJob(settle, wallet.KindSeller, c.config.SellerSettlementSchedule, c.logger),
		jobs.NewSettlementJob(settle, wallet.KindCourier, c.config.CourierSettlementSchedule, c.logger),
		jobs.NewNotificationSweepJob(c.CreateReconcileNotificationsCommandHandler(),
			c.config.NotificationSweepLookback, c.config.NotificationSweepSchedule, c.logger),
		jobs.NewAutoCompleteJob(c.CreateAutoCompleteOrdersCommandHandler(),
			c.config.AutoCompleteAfter, c.config.AutoCompleteSchedule, c.logger),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderLedgerUoWFactory func() commands.OrderLedgerUoW

func (f FuncOrderLedgerUoWFactory) Create() commands.OrderLedgerUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncInboxUoWFactory func() notifications.UnitOfWork

func (f FuncInboxUoWFactory) Create() notifications.UnitOfWork {
	return f()
}
