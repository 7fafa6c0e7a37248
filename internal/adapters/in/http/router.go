package http

import (
	"context"
	"log/slog"
	"net/http"

	"orderledger/internal/adapters/in/http/api"
	"orderledger/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries what NewRouter wires together.
type RouterConfig struct {
	Server   *Server
	Verifier ports.SessionVerifier
	Limiter  *SessionLimiter
	Logger   *slog.Logger
	Debug    bool
}

// NewRouter builds the echo instance: public health, metrics and docs endpoints, and
// the API behind session authentication, rate limiting and contract validation.
func NewRouter(ctx context.Context, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	contract, err := api.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	if err = api.RegisterDocs(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	if cfg.Debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.WARN)
	}
	e.HTTPErrorHandler = ErrorHandler(cfg.Logger)

	e.Use(middleware.Recover())
	e.Use(Metrics())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	apiGroup := e.Group("")
	apiGroup.Use(
		Authenticate(cfg.Verifier, cfg.Logger),
		RateLimit(cfg.Limiter),
		ValidateRequests(contract, cfg.Logger),
	)
	RegisterHandlers(apiGroup, cfg.Server)

	return e, nil
}
