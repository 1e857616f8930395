package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/memstore"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
)

// countingUserRepo counts backend list calls so tests can assert cache hits
// versus refetches.
type countingUserRepo struct {
	ports.UserRepository
	listCalls    atomic.Int32
	companyCalls atomic.Int32
	toggleCalls  atomic.Int32
}

func (c *countingUserRepo) ListEndUsers(ctx context.Context) ([]*model.User, error) {
	c.listCalls.Add(1)
	return c.UserRepository.ListEndUsers(ctx)
}

func (c *countingUserRepo) ListCompanyUsers(ctx context.Context, excludeEmail string) ([]*model.User, error) {
	c.companyCalls.Add(1)
	return c.UserRepository.ListCompanyUsers(ctx, excludeEmail)
}

func (c *countingUserRepo) ToggleActive(ctx context.Context, email string) (bool, error) {
	c.toggleCalls.Add(1)
	return c.UserRepository.ToggleActive(ctx, email)
}

func newUserService() (*UserService, *countingUserRepo) {
	repo := &countingUserRepo{UserRepository: memstore.Seeded()}
	svc := NewUserService(UserServiceOptions{
		Users: repo,
		Cache: cache.New(cache.Options{Attempts: 1}),
	})
	return svc, repo
}

func TestListIsCached(t *testing.T) {
	svc, repo := newUserService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		users, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	}
	assert.Equal(t, int32(1), repo.listCalls.Load())
}

func TestDoubleToggleRoundTrips(t *testing.T) {
	svc, repo := newUserService()
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)

	active, err := svc.ToggleActive(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.False(t, active)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.listCalls.Load(), "toggle must invalidate the cached list")

	active, err = svc.ToggleActive(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.True(t, active, "two toggles land back on the original value")
	assert.Equal(t, int32(2), repo.toggleCalls.Load())

	users, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), repo.listCalls.Load(), "each toggle triggers its own refetch")
	for _, u := range users {
		if u.Email == "test@chapa.com" {
			assert.True(t, u.Active)
		}
	}
}

func TestCompanyUsersCachedPerViewer(t *testing.T) {
	svc, repo := newUserService()
	ctx := context.Background()

	admins, err := svc.CompanyUsers(ctx, "admin@chapa.com")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "superadmin@chapa.com", admins[0].Email)

	_, err = svc.CompanyUsers(ctx, "admin@chapa.com")
	require.NoError(t, err)
	assert.Equal(t, int32(1), repo.companyCalls.Load())

	_, err = svc.CompanyUsers(ctx, "superadmin@chapa.com")
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.companyCalls.Load(), "each viewer has its own entry")
}

func TestRemoveInvalidatesLists(t *testing.T) {
	svc, repo := newUserService()
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "test@chapa.com"))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int32(2), repo.listCalls.Load())

	err = svc.Remove(ctx, "test@chapa.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddAdmin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	created, err := svc.AddAdmin(ctx, &model.AddAdminRequest{
		Username: "newbie",
		Email:    "Newbie@Chapa.com",
		Password: "secret123",
		Role:     domainauth.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie@chapa.com", created.Email)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "secret123", created.PasswordHash)

	_, err = svc.AddAdmin(ctx, &model.AddAdminRequest{
		Username: "dup",
		Email:    "newbie@chapa.com",
		Password: "secret123",
		Role:     domainauth.RoleAdmin,
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestAddAdminValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.AddAdminRequest
	}{
		{"missing username", model.AddAdminRequest{Email: "a@chapa.com", Password: "x", Role: domainauth.RoleAdmin}},
		{"missing email", model.AddAdminRequest{Username: "a", Password: "x", Role: domainauth.RoleAdmin}},
		{"missing password", model.AddAdminRequest{Username: "a", Email: "a@chapa.com", Role: domainauth.RoleAdmin}},
		{"end-user role", model.AddAdminRequest{Username: "a", Email: "a@chapa.com", Password: "x", Role: domainauth.RoleUser}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddAdmin(ctx, &tc.req)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestRemoveRefreshesLedgerViews(t *testing.T) {
	store := memstore.Seeded()
	c := cache.New(cache.Options{Attempts: 1})
	users := NewUserService(UserServiceOptions{Users: store, Cache: c})
	txs := NewTransactionService(TransactionServiceOptions{Transactions: store, Cache: c})
	ctx := context.Background()

	all, err := txs.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)

	require.NoError(t, users.Remove(ctx, "test@chapa.com"))

	// The cascade dropped the removed account's ledger entries; the cached
	// platform view must not keep serving them.
	all, err = txs.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, tx := range all {
		assert.Equal(t, "libamlak@chapa.com", tx.UserID)
	}
}
