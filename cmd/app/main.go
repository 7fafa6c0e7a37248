package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderledger/cmd"
	httpin "orderledger/internal/adapters/in/http"
	"orderledger/internal/adapters/out/postgres/migrations"
	"orderledger/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config, err := cmd.LoadConfig()
	if err != nil {
		return err
	}

	logger, zl, err := cmd.NewLogger(config.LogLevel, config.LogMode)
	if err != nil {
		return err
	}
	defer func() {
		_ = zl.Sync()
	}()

	if err := migrations.Up(config.DSN()); err != nil {
		return err
	}

	gormDB, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to the DB: %w", err)
	}

	metrics.Register()

	app, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := buildWebServer(ctx, app, config, logger)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return serve(ctx, e, config.HTTPPort, logger)
}

func buildWebServer(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config, logger *slog.Logger) (*echo.Echo, error) {
	verifier, err := httpin.NewPasetoVerifier(config.SessionKeyHex)
	if err != nil {
		return nil, err
	}

	return httpin.NewRouter(ctx, httpin.RouterConfig{
		Server:   app.CreateHTTPServer(),
		Verifier: verifier,
		Limiter:  httpin.NewSessionLimiter(config.RateLimitRPS, config.RateLimitBurst),
		Logger:   logger,
		Debug:    config.LogMode == cmd.AppModeDevelop,
	})
}

func serve(ctx context.Context, e *echo.Echo, port string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server is listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
