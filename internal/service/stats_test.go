package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/memstore"
	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
)

type countingStatsRepo struct {
	ports.TransactionRepository
	statsCalls atomic.Int32
}

func (c *countingStatsRepo) Stats(ctx context.Context) (*model.SystemStats, error) {
	c.statsCalls.Add(1)
	return c.TransactionRepository.Stats(ctx)
}

func TestStatsCached(t *testing.T) {
	repo := &countingStatsRepo{TransactionRepository: memstore.Seeded()}
	svc := NewStatsService(StatsServiceOptions{
		Transactions: repo,
		Cache:        cache.New(cache.Options{Attempts: 1}),
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1345.0, stats.TotalPayments)
		assert.Equal(t, 4, stats.ActiveUsers)
		assert.Equal(t, 2, stats.Admins)
	}
	assert.Equal(t, int32(1), repo.statsCalls.Load())
}

func TestPaymentSummaries(t *testing.T) {
	store := memstore.Seeded()
	svc := NewStatsService(StatsServiceOptions{
		Transactions: store,
		Cache:        cache.New(cache.Options{Attempts: 1}),
	})

	sums, err := svc.PaymentSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "libamlak@chapa.com", sums[0].UserID)
	assert.Equal(t, 320.0, sums[0].TotalSent)
	assert.Equal(t, 500.0, sums[0].TotalReceived)
}

func TestSendRefreshesStats(t *testing.T) {
	store := memstore.Seeded()
	c := cache.New(cache.Options{Attempts: 1})
	stats := NewStatsService(StatsServiceOptions{Transactions: store, Cache: c})
	txs := NewTransactionService(TransactionServiceOptions{
		Transactions: store,
		Cache:        c,
	})
	ctx := context.Background()

	before, err := stats.Stats(ctx)
	require.NoError(t, err)

	_, err = txs.Send(ctx, &model.SendTransactionRequest{
		Amount: 100, To: "R", UserID: "libamlak@chapa.com",
	})
	require.NoError(t, err)

	after, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.TotalPayments+100, after.TotalPayments)
}

func TestUserMutationsRefreshStats(t *testing.T) {
	store := memstore.Seeded()
	repo := &countingStatsRepo{TransactionRepository: store}
	c := cache.New(cache.Options{Attempts: 1})
	stats := NewStatsService(StatsServiceOptions{Transactions: repo, Cache: c})
	users := NewUserService(UserServiceOptions{Users: store, Cache: c})
	ctx := context.Background()

	before, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, before.ActiveUsers)
	assert.Equal(t, 2, before.Admins)

	active, err := users.ToggleActive(ctx, "libamlak@chapa.com")
	require.NoError(t, err)
	assert.False(t, active)

	after, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, after.ActiveUsers, "deactivation must drop the cached counters")
	assert.Equal(t, int32(2), repo.statsCalls.Load())

	_, err = users.AddAdmin(ctx, &model.AddAdminRequest{
		Username: "ops",
		Email:    "ops@chapa.com",
		Password: "secret123",
		Role:     domainauth.RoleAdmin,
	})
	require.NoError(t, err)

	after, err = stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, after.Admins, "a new admin must show up in the counters")
}

func TestRemoveRefreshesSummaries(t *testing.T) {
	store := memstore.Seeded()
	c := cache.New(cache.Options{Attempts: 1})
	stats := NewStatsService(StatsServiceOptions{Transactions: store, Cache: c})
	users := NewUserService(UserServiceOptions{Users: store, Cache: c})
	ctx := context.Background()

	sums, err := stats.PaymentSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	require.NoError(t, users.Remove(ctx, "test@chapa.com"))

	sums, err = stats.PaymentSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "libamlak@chapa.com", sums[0].UserID)
}
