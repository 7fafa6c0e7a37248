package http

import (
	"log/slog"
	"net/http"
	"strings"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/application/usecases/queries"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	// Command handlers
	createOrderHandler           commands.CreateOrderCommandHandler
	changeOrderStatusHandler     commands.ChangeOrderStatusCommandHandler
	updateCourierLocationHandler commands.UpdateCourierLocationCommandHandler
	postAdjustmentHandler        commands.PostLedgerAdjustmentCommandHandler
	requestWithdrawalHandler     commands.RequestWithdrawalCommandHandler
	markReadHandler              commands.MarkNotificationReadCommandHandler
	markAllReadHandler           commands.MarkAllNotificationsReadCommandHandler
	clearNotificationsHandler    commands.ClearNotificationsCommandHandler
	setCourierDutyHandler        commands.SetCourierDutyCommandHandler

	// Query handlers
	getOrderHandler          queries.GetOrderQueryHandler
	listOrdersHandler        queries.ListOrdersQueryHandler
	getWalletBalanceHandler  queries.GetWalletBalanceQueryHandler
	listLedgerEntriesHandler queries.ListLedgerEntriesQueryHandler
	listNotificationsHandler queries.ListNotificationsQueryHandler
	listCouriersHandler      queries.ListCouriersQueryHandler

	logger *slog.Logger
}

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	CreateOrder           commands.CreateOrderCommandHandler
	ChangeOrderStatus     commands.ChangeOrderStatusCommandHandler
	UpdateCourierLocation commands.UpdateCourierLocationCommandHandler
	PostAdjustment        commands.PostLedgerAdjustmentCommandHandler
	RequestWithdrawal     commands.RequestWithdrawalCommandHandler
	MarkRead              commands.MarkNotificationReadCommandHandler
	MarkAllRead           commands.MarkAllNotificationsReadCommandHandler
	ClearNotifications    commands.ClearNotificationsCommandHandler
	SetCourierDuty        commands.SetCourierDutyCommandHandler

	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	GetWalletBalance  queries.GetWalletBalanceQueryHandler
	ListLedgerEntries queries.ListLedgerEntriesQueryHandler
	ListNotifications queries.ListNotificationsQueryHandler
	ListCouriers      queries.ListCouriersQueryHandler
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		createOrderHandler:           h.CreateOrder,
		changeOrderStatusHandler:     h.ChangeOrderStatus,
		updateCourierLocationHandler: h.UpdateCourierLocation,
		postAdjustmentHandler:        h.PostAdjustment,
		requestWithdrawalHandler:     h.RequestWithdrawal,
		markReadHandler:              h.MarkRead,
		markAllReadHandler:           h.MarkAllRead,
		clearNotificationsHandler:    h.ClearNotifications,
		setCourierDutyHandler:        h.SetCourierDuty,
		getOrderHandler:              h.GetOrder,
		listOrdersHandler:            h.ListOrders,
		getWalletBalanceHandler:      h.GetWalletBalance,
		listLedgerEntriesHandler:     h.ListLedgerEntries,
		listNotificationsHandler:     h.ListNotifications,
		listCouriersHandler:          h.ListCouriers,
		logger:                       logger.With("component", "HTTPServer"),
	}
}

var _ ServerInterface = (*Server)(nil)

func (s *Server) session(ctx echo.Context) (ports.Session, error) {
	session, ok := sessionFrom(ctx)
	if !ok {
		return ports.Session{}, errUnauthorized
	}
	return session, nil
}

func (s *Server) fail(ctx echo.Context, err error) error {
	return writeError(ctx, s.logger, err)
}

func parseID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func parseOptionalID(name string, raw *string) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := parseID(name, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func bindBody(ctx echo.Context, dest any) error {
	if err := ctx.Bind(dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

// requireRole fails unless the session has one of roles.
func requireRole(session ports.Session, roles ...order.Role) error {
	for _, role := range roles {
		if session.Role == role {
			return nil
		}
	}
	return errs.NewAccessDeniedError("role", session.Role.String()+" may not perform this operation")
}

// requireSelfOrAdmin fails unless userID is the session's own id or the session is an
// operator.
func requireSelfOrAdmin(session ports.Session, param string, userID kernel.UUID) error {
	if session.Role == order.RoleAdmin || session.UserID.IsEqual(userID) {
		return nil
	}
	return errs.NewAccessDeniedError(param, "belongs to another user")
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var filter queries.OrderFilter
	if filter.BuyerID, err = parseOptionalID("userId", params.UserID); err != nil {
		return s.fail(ctx, err)
	}
	if filter.SellerID, err = parseOptionalID("umkmId", params.UmkmID); err != nil {
		return s.fail(ctx, err)
	}
	if filter.CourierID, err = parseOptionalID("driverId", params.DriverID); err != nil {
		return s.fail(ctx, err)
	}
	if params.Status != nil {
		status, parseErr := order.ParseStatus(*params.Status)
		if parseErr != nil {
			return s.fail(ctx, parseErr)
		}
		filter.Status = &status
	}

	query, err := queries.NewListOrdersQuery(session, filter)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Order, len(views))
	for i, v := range views {
		response[i] = orderFromView(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /orders. The session user is the buyer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireRole(session, order.RoleBuyer); err != nil {
		return s.fail(ctx, err)
	}

	var body NewOrder
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	items := make([]commands.ItemInput, len(body.Items))
	for i, item := range body.Items {
		items[i] = commands.ItemInput(item)
	}

	cmd, err := commands.NewCreateOrderCommand(commands.CreateOrderInput{
		OrderID:         kernel.NewUUID(),
		BuyerID:         session.UserID,
		SellerID:        body.SellerID,
		Items:           items,
		DeliveryFee:     body.DeliveryFee,
		DeliveryAddress: body.DeliveryAddress,
		PaymentMethod:   body.PaymentMethod,
		Notes:           body.Notes,
	})
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, orderFromAggregate(o))
}

// GetOrder handles GET /orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id string) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := parseID("id", id)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, session)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromView(view))
}

// ChangeOrderStatus handles PATCH /orders/{id}/status. The role is the session's.
func (s *Server) ChangeOrderStatus(ctx echo.Context, id string) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := parseID("id", id)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body StatusChange
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(
		orderID, session.UserID, session.Role.String(), body.Status, body.ExpectedVersion, body.CourierID)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd.WithNote(body.Notes))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromAggregate(o))
}

// UpdateCourierLocation handles PATCH /orders/{id}/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context, id string) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireRole(session, order.RoleCourier); err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := parseID("id", id)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body LocationUpdate
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(orderID, session.UserID, body.Latitude, body.Longitude, body.RecordedAt)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.updateCourierLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetWalletBalance handles GET /wallet/{accountId}.
func (s *Server) GetWalletBalance(ctx echo.Context, accountID string) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := parseID("accountId", accountID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireSelfOrAdmin(session, "accountId", id); err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetWalletBalanceQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.getWalletBalanceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, Balance{
		AccountID: view.AccountID,
		Kind:      view.Kind,
		Available: view.Available,
		Pending:   view.Pending,
	})
}

// ListLedgerEntries handles GET /wallet/{accountId}/transactions.
func (s *Server) ListLedgerEntries(ctx echo.Context, accountID string, params ListLedgerEntriesParams) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	id, err := parseID("accountId", accountID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireSelfOrAdmin(session, "accountId", id); err != nil {
		return s.fail(ctx, err)
	}

	var page, limit int
	if params.Page != nil {
		page = *params.Page
	}
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListLedgerEntriesQuery(id, page, limit, params.From, params.To)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.listLedgerEntriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	entries := make([]Entry, len(result.Entries))
	for i, e := range result.Entries {
		entries[i] = Entry(e)
	}
	return ctx.JSON(http.StatusOK, EntriesPage{
		AccountID: result.AccountID,
		Entries:   entries,
		Page:      result.Page,
		Limit:     result.Limit,
		Total:     result.Total,
	})
}

// TopUp handles POST /wallet/topup.
func (s *Server) TopUp(ctx echo.Context) error {
	return s.adjust(ctx, commands.Credit)
}

// Deduct handles POST /wallet/deduct.
func (s *Server) Deduct(ctx echo.Context) error {
	return s.adjust(ctx, commands.Debit)
}

func (s *Server) adjust(ctx echo.Context, direction commands.Direction) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireRole(session, order.RoleAdmin); err != nil {
		return s.fail(ctx, err)
	}

	var body Adjustment
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	description := strings.TrimSpace(body.Description)
	if description == "" {
		description = "manual " + string(direction) + " by " + session.UserID.String()
	}

	cmd, err := commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID:   body.AccountID,
		AccountKind: body.AccountKind,
		Direction:   direction,
		Amount:      body.Amount,
		Type:        body.Type,
		OrderID:     body.OrderID,
		Description: description,
	})
	if err != nil {
		return s.fail(ctx, err)
	}

	balance, err := s.postAdjustmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, balanceFromWallet(balance, wallet.AccountKind(body.AccountKind)))
}

// Withdraw handles POST /wallet/withdraw. Only the account owner may withdraw.
func (s *Server) Withdraw(ctx echo.Context) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body Withdrawal
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}
	if !session.UserID.IsEqual(body.AccountID) {
		return s.fail(ctx, errs.NewAccessDeniedError("accountId", "only the owner may withdraw"))
	}

	cmd, err := commands.NewRequestWithdrawalCommand(body.AccountID, body.Amount)
	if err != nil {
		return s.fail(ctx, err)
	}
	balance, err := s.requestWithdrawalHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, balanceFromWallet(balance, ""))
}

// ListNotifications handles GET /notifications/user/{id}.
func (s *Server) ListNotifications(ctx echo.Context, userID string, params ListNotificationsParams) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	recipientID, err := parseID("id", userID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireSelfOrAdmin(session, "id", recipientID); err != nil {
		return s.fail(ctx, err)
	}

	unread := params.Unread != nil && *params.Unread
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListNotificationsQuery(recipientID, unread, limit)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.listNotificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Notification, len(views))
	for i, v := range views {
		response[i] = Notification(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// ClearNotifications handles DELETE /notifications/user/{id}.
func (s *Server) ClearNotifications(ctx echo.Context, userID string) error {
	cmd, err := s.inboxCommand(ctx, userID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cleared, err := s.clearNotificationsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, Affected{Affected: cleared})
}

// MarkAllNotificationsRead handles PATCH /notifications/user/{id}/read-all.
func (s *Server) MarkAllNotificationsRead(ctx echo.Context, userID string) error {
	cmd, err := s.inboxCommand(ctx, userID)
	if err != nil {
		return s.fail(ctx, err)
	}
	read, err := s.markAllReadHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, Affected{Affected: read})
}

// inboxCommand builds a command on the caller's own inbox.
func (s *Server) inboxCommand(ctx echo.Context, userID string) (commands.InboxCommand, error) {
	session, err := s.session(ctx)
	if err != nil {
		return commands.InboxCommand{}, err
	}
	recipientID, err := parseID("id", userID)
	if err != nil {
		return commands.InboxCommand{}, err
	}
	if !session.UserID.IsEqual(recipientID) {
		return commands.InboxCommand{}, errs.NewAccessDeniedError("id", "inbox of another user")
	}
	return commands.NewInboxCommand(recipientID)
}

// MarkNotificationRead handles PATCH /notifications/{id}/read.
func (s *Server) MarkNotificationRead(ctx echo.Context, id string) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	notificationID, err := parseID("id", id)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, session.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.markReadHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ListCouriers handles GET /couriers.
func (s *Server) ListCouriers(ctx echo.Context, params ListCouriersParams) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = requireRole(session, order.RoleAdmin); err != nil {
		return s.fail(ctx, err)
	}

	query := queries.NewListCouriersQuery(params.OnDuty != nil && *params.OnDuty)
	views, err := s.listCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Courier, len(views))
	for i, v := range views {
		response[i] = Courier(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// SetCourierDuty handles PUT /couriers/{id}/duty.
func (s *Server) SetCourierDuty(ctx echo.Context, id string) error {
	session, err := s.session(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	courierID, err := parseID("id", id)
	if err != nil {
		return s.fail(ctx, err)
	}
	if session.Role != order.RoleAdmin &&
		(session.Role != order.RoleCourier || !session.UserID.IsEqual(courierID)) {
		return s.fail(ctx, errs.NewAccessDeniedError("id", "only the courier or an operator may change duty"))
	}

	var body DutyChange
	if err = bindBody(ctx, &body); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSetCourierDutyCommand(courierID, body.Name, body.OnDuty)
	if err != nil {
		return s.fail(ctx, err)
	}
	c, err := s.setCourierDutyHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, courierFromAggregate(c))
}
