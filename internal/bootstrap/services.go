package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/libamlakbirhanu/chapa-dashboard/config"
	redisadapter "github.com/libamlakbirhanu/chapa-dashboard/internal/adapters/redis"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/memstore"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/devseed"
	httpx "github.com/libamlakbirhanu/chapa-dashboard/internal/http"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// ServiceContainer holds all constructed services and their resources.
type ServiceContainer struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Transactions *service.TransactionService
	Stats        *service.StatsService
	Health       map[string]httpx.HealthChecker

	DB    *sql.DB
	Redis *redis.Client
}

// Close releases the container's resources.
func (c *ServiceContainer) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

// BuildServices wires repositories, caches and services according to the
// configured storage mode. Memory mode needs no Postgres and no Redis: the
// seeded store plus in-process session storage serve the whole app.
func BuildServices(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*ServiceContainer, error) {
	container := &ServiceContainer{Health: map[string]httpx.HealthChecker{}}

	var (
		userRepo   ports.UserRepository
		txRepo     ports.TransactionRepository
		sessions   ports.SessionStore
		aggregates *data.AggregateCache
	)

	switch cfg.Storage {
	case config.StorageModeMemory:
		store := memstore.Seeded()
		userRepo = store
		txRepo = store
		sessions = newMemSessionStore()
		logger.Info("using in-memory storage with seed data")

	default:
		db, err := ConnectDB(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		container.DB = db

		rdb, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.Redis = rdb

		userRepo = data.NewUserRepo(db)
		txRepo = data.NewTransactionRepo(db)
		sessions = redisadapter.NewSessionStore(rdb)
		aggregates = data.NewAggregateCache(rdb, cfg.Redis.AggregateTTL)
		container.Health["database"] = dbHealth{db}
		container.Health["redis"] = aggregates

		if cfg.IsDev {
			if err := devseed.Run(ctx, db, logger); err != nil {
				container.Close()
				return nil, fmt.Errorf("dev seed: %w", err)
			}
		}
	}

	rememberSecret := cfg.Auth.RememberSecret
	if rememberSecret == "" {
		// Dev-mode fallback; LoadConfig rejects this outside dev.
		rememberSecret = "dev-remember-secret"
	}
	remember := auth.NewRememberTokenManager(rememberSecret, cfg.Auth.Issuer, cfg.Auth.RememberTTL)

	readCache := cache.New(cache.Options{
		Attempts: cfg.Payments.CacheAttempts,
		Logger:   logger,
	})

	container.Auth = service.NewAuthService(service.AuthServiceOptions{
		Users:      userRepo,
		Sessions:   sessions,
		Remember:   remember,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})
	container.Users = service.NewUserService(service.UserServiceOptions{
		Users:      userRepo,
		Cache:      readCache,
		Aggregates: aggregates,
		Logger:     logger,
	})
	container.Transactions = service.NewTransactionService(service.TransactionServiceOptions{
		Transactions: txRepo,
		Cache:        readCache,
		Aggregates:   aggregates,
		MaxSend:      cfg.Payments.SendLimit,
		Logger:       logger,
	})
	container.Stats = service.NewStatsService(service.StatsServiceOptions{
		Transactions: txRepo,
		Cache:        readCache,
		Aggregates:   aggregates,
		Logger:       logger,
	})

	return container, nil
}

type dbHealth struct{ db *sql.DB }

func (h dbHealth) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
