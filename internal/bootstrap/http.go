package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/libamlakbirhanu/chapa-dashboard/config"
	httpx "github.com/libamlakbirhanu/chapa-dashboard/internal/http"
)

// StartHTTPServer builds the router and starts serving in a goroutine.
// The returned server is used for graceful shutdown.
func StartHTTPServer(cfg config.AppConfig, services *ServiceContainer, logger *slog.Logger) (*http.Server, error) {
	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth:         services.Auth,
		Users:        services.Users,
		Transactions: services.Transactions,
		Stats:        services.Stats,
		Health:       services.Health,
		Cookies: httpx.CookieSettings{
			Domain:      cfg.Auth.CookieDomain,
			Secure:      cfg.Auth.SecureCookies,
			RememberTTL: cfg.Auth.RememberTTL,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
		}
	}()

	return server, nil
}

// ShutdownHTTPServer gracefully drains the server within the configured
// timeout.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, timeout time.Duration, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return
	}
	logger.Info("HTTP server stopped")
}
