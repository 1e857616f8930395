package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

func TestGetByEmail(t *testing.T) {
	s := Seeded()
	ctx := context.Background()

	u, err := s.GetByEmail(ctx, "Libamlak@Chapa.com")
	require.NoError(t, err)
	assert.Equal(t, "libamlak", u.Username)
	assert.Equal(t, domainauth.RoleUser, u.Role)
	assert.Equal(t, 3000.0, u.Balance)

	_, err = s.GetByEmail(ctx, "nobody@chapa.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListEndUsers(t *testing.T) {
	s := Seeded()

	users, err := s.ListEndUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, domainauth.RoleUser, u.Role)
	}
}

func TestListCompanyUsersExcludesCaller(t *testing.T) {
	s := Seeded()

	users, err := s.ListCompanyUsers(context.Background(), "admin@chapa.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "superadmin@chapa.com", users[0].Email)
}

func TestCreateAdmin(t *testing.T) {
	s := Seeded()
	ctx := context.Background()

	created, err := s.CreateAdmin(ctx, &model.User{
		Email:    "new-admin@chapa.com",
		Username: "new-admin",
		Role:     domainauth.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.Zero(t, created.Balance)

	_, err = s.CreateAdmin(ctx, &model.User{
		Email:    "NEW-ADMIN@chapa.com",
		Username: "dup",
		Role:     domainauth.RoleAdmin,
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestToggleActive(t *testing.T) {
	s := Seeded()
	ctx := context.Background()

	active, err := s.ToggleActive(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = s.ToggleActive(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.True(t, active)

	_, err = s.ToggleActive(ctx, "ghost@chapa.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	s := Seeded()
	ctx := context.Background()

	deleted, err := s.Delete(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSendDebitsBalanceAndAppends(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return fixed })
	s.AddUser(model.User{
		Email: "payer@chapa.com", Username: "payer",
		Role: domainauth.RoleUser, Active: true, Balance: 100,
	})
	ctx := context.Background()

	tx, err := s.Send(ctx, &model.SendTransactionRequest{
		Amount: 40, To: "Rahel", UserID: "payer@chapa.com",
	})
	require.NoError(t, err)
	assert.Equal(t, -40.0, tx.Amount)
	assert.Equal(t, "Rahel", tx.To)
	assert.Equal(t, fixed.Format(time.DateOnly), tx.Date.Time().Format(time.DateOnly))

	balance, err := s.Balance(ctx, "payer@chapa.com")
	require.NoError(t, err)
	assert.Equal(t, 60.0, balance)

	mine, err := s.ListByUser(ctx, "payer@chapa.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestSendInsufficientBalance(t *testing.T) {
	s := Seeded()
	ctx := context.Background()

	_, err := s.Send(ctx, &model.SendTransactionRequest{
		Amount: 99999, To: "Rahel", UserID: "test@chapa.com",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "Insufficient balance")

	balance, err := s.Balance(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, balance, "failed send must not change the balance")

	mine, err := s.ListByUser(ctx, "test@chapa.com")
	require.NoError(t, err)
	assert.Len(t, mine, 3, "failed send must not append a ledger entry")
}

func TestStats(t *testing.T) {
	s := Seeded()

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	// 200+500+120+300+150+75 in absolute value
	assert.Equal(t, 1345.0, stats.TotalPayments)
	assert.Equal(t, 4, stats.ActiveUsers)
	assert.Equal(t, 2, stats.Admins)
}

func TestPaymentSummaries(t *testing.T) {
	s := Seeded()

	sums, err := s.PaymentSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 2)

	byUser := map[string]*model.PaymentSummary{}
	for _, sum := range sums {
		byUser[sum.UserID] = sum
	}
	lib := byUser["libamlak@chapa.com"]
	require.NotNil(t, lib)
	assert.Equal(t, 320.0, lib.TotalSent)
	assert.Equal(t, 500.0, lib.TotalReceived)
	assert.Equal(t, 3, lib.TransactionCount)
}
