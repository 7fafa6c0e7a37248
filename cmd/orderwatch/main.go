// Command orderwatch keeps a live view of one session's orders and wallet by polling the
// order ledger API, and logs it on every poll.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderledger/cmd"
	"orderledger/internal/adapters/out/httpclient"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/ports"
	"orderledger/internal/syncengine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config, err := cmd.LoadWatchConfig()
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

	role, err := order.ParseRole(config.Role)
	if err != nil {
		return err
	}
	session := ports.Session{UserID: config.UserID, Role: role}

	client, err := httpclient.New(config.APIBaseURL, config.SessionToken, session, nil)
	if err != nil {
		return err
	}

	engine, err := syncengine.NewEngine(session, client, config.PollInterval, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = engine.Stop()
	}()

	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()
	for {
		report(engine, logger)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func report(engine *syncengine.Engine, logger *slog.Logger) {
	status := engine.Status()
	balance := engine.Balance()
	if status.Stale {
		logger.Warn("view is stale", "lastSync", status.LastSync, "error", status.LastError)
	}
	logger.Info("wallet",
		"available", balance.Available.Int64(),
		"pending", balance.Pending.Int64(),
		"unconfirmed", status.Pending)

	for _, o := range engine.Orders() {
		logger.Info("order",
			"id", o.ID.String(),
			"status", string(o.Status),
			"version", o.Version,
			"total", o.Total.Int64(),
			"pending", o.Pending)
	}
}
