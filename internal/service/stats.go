package service

import (
	"context"
	"log/slog"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
)

// Redis keys for the second-level aggregate cache.
const (
	aggregateStatsKey   = "stats"
	aggregateSummaryKey = "payment-summary"
)

// StatsServiceOptions groups dependencies for StatsService.
type StatsServiceOptions struct {
	Transactions ports.TransactionRepository
	Cache        *cache.Cache
	Aggregates   *data.AggregateCache
	Logger       *slog.Logger
}

// StatsService serves the admin aggregates. Reads go through the in-process
// read cache first and then a Redis layer with a TTL, so the expensive
// aggregate queries run once per invalidation across all server instances.
type StatsService struct {
	txs        ports.TransactionRepository
	cache      *cache.Cache
	aggregates *data.AggregateCache
	logger     *slog.Logger
}

// NewStatsService constructs a new StatsService.
func NewStatsService(opts StatsServiceOptions) *StatsService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		txs:        opts.Transactions,
		cache:      opts.Cache,
		aggregates: opts.Aggregates,
		logger:     logger.With("component", "stats_service"),
	}
}

// Stats returns the platform-wide counters.
func (s *StatsService) Stats(ctx context.Context) (*model.SystemStats, error) {
	return cache.GetAs(ctx, s.cache, cache.StatsKey(),
		func(ctx context.Context) (*model.SystemStats, error) {
			var cached model.SystemStats
			if hit := s.aggregateGet(ctx, aggregateStatsKey, &cached); hit {
				return &cached, nil
			}
			stats, err := s.txs.Stats(ctx)
			if err != nil {
				return nil, err
			}
			s.aggregateSet(ctx, aggregateStatsKey, stats)
			return stats, nil
		})
}

// PaymentSummaries returns the per-user payment aggregates.
func (s *StatsService) PaymentSummaries(ctx context.Context) ([]*model.PaymentSummary, error) {
	return cache.GetAs(ctx, s.cache, cache.PaymentSummaryKey(),
		func(ctx context.Context) ([]*model.PaymentSummary, error) {
			var cached []*model.PaymentSummary
			if hit := s.aggregateGet(ctx, aggregateSummaryKey, &cached); hit {
				return cached, nil
			}
			sums, err := s.txs.PaymentSummaries(ctx)
			if err != nil {
				return nil, err
			}
			s.aggregateSet(ctx, aggregateSummaryKey, sums)
			return sums, nil
		})
}

// aggregateGet reads the Redis layer, treating any failure as a miss.
func (s *StatsService) aggregateGet(ctx context.Context, key string, dst any) bool {
	if s.aggregates == nil {
		return false
	}
	hit, err := s.aggregates.Get(ctx, key, dst)
	if err != nil {
		s.logger.WarnContext(ctx, "aggregate cache read failed", "key", key, "err", err)
		return false
	}
	return hit
}

func (s *StatsService) aggregateSet(ctx context.Context, key string, value any) {
	if s.aggregates == nil {
		return
	}
	if err := s.aggregates.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "aggregate cache write failed", "key", key, "err", err)
	}
}
