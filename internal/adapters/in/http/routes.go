package http

import (
	"time"

	"orderledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

type ListOrdersParams struct {
	UserID   *string
	UmkmID   *string
	DriverID *string
	Status   *string
}

type ListLedgerEntriesParams struct {
	Page  *int
	Limit *int
	From  *time.Time
	To    *time.Time
}

type ListNotificationsParams struct {
	Unread *bool
	Limit  *int
}

type ListCouriersParams struct {
	OnDuty *bool
}

// ServerInterface is the set of operations of the API document.
type ServerInterface interface {
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	CreateOrder(ctx echo.Context) error
	GetOrder(ctx echo.Context, id string) error
	ChangeOrderStatus(ctx echo.Context, id string) error
	UpdateCourierLocation(ctx echo.Context, id string) error

	GetWalletBalance(ctx echo.Context, accountID string) error
	ListLedgerEntries(ctx echo.Context, accountID string, params ListLedgerEntriesParams) error
	TopUp(ctx echo.Context) error
	Deduct(ctx echo.Context) error
	Withdraw(ctx echo.Context) error

	ListNotifications(ctx echo.Context, userID string, params ListNotificationsParams) error
	ClearNotifications(ctx echo.Context, userID string) error
	MarkAllNotificationsRead(ctx echo.Context, userID string) error
	MarkNotificationRead(ctx echo.Context, id string) error

	ListCouriers(ctx echo.Context, params ListCouriersParams) error
	SetCourierDuty(ctx echo.Context, id string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindPathParam(ctx echo.Context, name string, dest *string) error {
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, ctx.Param(name), dest)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

func bindQueryParam(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	for name, dest := range map[string]**string{
		"userId":   &params.UserID,
		"umkmId":   &params.UmkmID,
		"driverId": &params.DriverID,
		"status":   &params.Status,
	} {
		if err := bindQueryParam(ctx, name, dest); err != nil {
			return err
		}
	}
	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var id string
	if err := bindPathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	var id string
	if err := bindPathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateCourierLocation(ctx echo.Context) error {
	var id string
	if err := bindPathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.UpdateCourierLocation(ctx, id)
}

func (w *ServerInterfaceWrapper) GetWalletBalance(ctx echo.Context) error {
	var accountID string
	if err := bindPathParam(ctx, "accountId", &accountID); err != nil {
		return err
	}
	return w.Handler.GetWalletBalance(ctx, accountID)
}

func (w *ServerInterfaceWrapper) ListLedgerEntries(ctx echo.Context) error {
	var accountID string
	if err := bindPathParam(ctx, "accountId", &accountID); err != nil {
		return err
	}

	var params ListLedgerEntriesParams
	if err := bindQueryParam(ctx, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQueryParam(ctx, "limit", &params.Limit); err != nil {
		return err
	}
	if err := bindQueryParam(ctx, "from", &params.From); err != nil {
		return err
	}
	if err := bindQueryParam(ctx, "to", &params.To); err != nil {
		return err
	}
	return w.Handler.ListLedgerEntries(ctx, accountID, params)
}

func (w *ServerInterfaceWrapper) TopUp(ctx echo.Context) error {
	return w.Handler.TopUp(ctx)
}

func (w *ServerInterfaceWrapper) Deduct(ctx echo.Context) error {
	return w.Handler.Deduct(ctx)
}

func (w *ServerInterfaceWrapper) Withdraw(ctx echo.Context) error {
	return w.Handler.Withdraw(ctx)
}

func (w *ServerInterfaceWrapper) ListNotifications(ctx echo.Context) error {
	var userID string
	if err := bindPathParam(ctx, "id", &userID); err != nil {
		return err
	}

	var params ListNotificationsParams
	if err := bindQueryParam(ctx, "unread", &params.Unread); err != nil {
		return err
	}
	if err := bindQueryParam(ctx, "limit", &params.Limit); err != nil {
		return err
	}
	return w.Handler.ListNotifications(ctx, userID, params)
}

func (w *ServerInterfaceWrapper) ClearNotifications(ctx echo.Context) error {
	var userID string
	if err := bindPathParam(ctx, "id", &userID); err != nil {
		return err
	}
	return w.Handler.ClearNotifications(ctx, userID)
}

func (w *ServerInterfaceWrapper) MarkAllNotificationsRead(ctx echo.Context) error {
	var userID string
	if err := bindPathParam(ctx, "id", &userID); err != nil {
		return err
	}
	return w.Handler.MarkAllNotificationsRead(ctx, userID)
}

func (w *ServerInterfaceWrapper) MarkNotificationRead(ctx echo.Context) error {
	var id string
	if err := bindPathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.MarkNotificationRead(ctx, id)
}

func (w *ServerInterfaceWrapper) ListCouriers(ctx echo.Context) error {
	var params ListCouriersParams
	if err := bindQueryParam(ctx, "onDuty", &params.OnDuty); err != nil {
		return err
	}
	return w.Handler.ListCouriers(ctx, params)
}

func (w *ServerInterfaceWrapper) SetCourierDuty(ctx echo.Context) error {
	var id string
	if err := bindPathParam(ctx, "id", &id); err != nil {
		return err
	}
	return w.Handler.SetCourierDuty(ctx, id)
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every API route to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/orders", w.ListOrders)
	router.POST("/orders", w.CreateOrder)
	router.GET("/orders/:id", w.GetOrder)
	router.PATCH("/orders/:id/status", w.ChangeOrderStatus)
	router.PATCH("/orders/:id/location", w.UpdateCourierLocation)

	router.GET("/wallet/:accountId", w.GetWalletBalance)
	router.GET("/wallet/:accountId/transactions", w.ListLedgerEntries)
	router.POST("/wallet/topup", w.TopUp)
	router.POST("/wallet/deduct", w.Deduct)
	router.POST("/wallet/withdraw", w.Withdraw)

	router.GET("/notifications/user/:id", w.ListNotifications)
	router.DELETE("/notifications/user/:id", w.ClearNotifications)
	router.PATCH("/notifications/user/:id/read-all", w.MarkAllNotificationsRead)
	router.PATCH("/notifications/:id/read", w.MarkNotificationRead)

	router.GET("/couriers", w.ListCouriers)
	router.PUT("/couriers/:id/duty", w.SetCourierDuty)
}
