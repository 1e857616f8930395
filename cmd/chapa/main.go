package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting chapa dashboard",
		"storage", cfg.Storage,
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
	)

	services, err := bootstrap.BuildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	server, err := bootstrap.StartHTTPServer(cfg, services, logger)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	logger.InfoContext(ctx, "shutting down", "signal", sig.String())

	bootstrap.ShutdownHTTPServer(ctx, server, cfg.HTTP.ShutdownTimeout, logger)
	return nil
}
