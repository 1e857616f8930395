package data

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/devseed"
	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/testutil"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	db := testutil.SetupTestDB(t)
	require.NoError(t, devseed.Run(t.Context(), db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return db
}

func TestUserRepoGetByEmail(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepo(db)

	u, err := repo.GetByEmail(t.Context(), "  LIBAMLAK@chapa.com ")
	require.NoError(t, err)
	assert.Equal(t, "libamlak@chapa.com", u.Email)
	assert.Equal(t, domainauth.RoleUser, u.Role)
	assert.InDelta(t, 3000, u.Balance, 0.001)

	_, err = repo.GetByEmail(t.Context(), "ghost@chapa.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepoListEndUsers(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepo(db)

	users, err := repo.ListEndUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "libamlak@chapa.com", users[0].Email)
	assert.Equal(t, "test@chapa.com", users[1].Email)
	for _, u := range users {
		assert.Equal(t, domainauth.RoleUser, u.Role)
	}
}

func TestUserRepoListCompanyUsers(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepo(db)

	users, err := repo.ListCompanyUsers(t.Context(), "admin@chapa.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "superadmin@chapa.com", users[0].Email)
}

func TestUserRepoCreateAdmin(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepo(db)

	created, err := repo.CreateAdmin(t.Context(), &model.User{
		ID:           uuid.NewString(),
		Email:        "New.Admin@chapa.com",
		Username:     "newadmin",
		Role:         domainauth.RoleAdmin,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.admin@chapa.com", created.Email)
	assert.True(t, created.Active)
	assert.Zero(t, created.Balance)

	_, err = repo.CreateAdmin(t.Context(), &model.User{
		ID:           uuid.NewString(),
		Email:        "new.admin@chapa.com",
		Username:     "dupe",
		Role:         domainauth.RoleAdmin,
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "User with this email already exists", apperrors.Message(err))
}

func TestUserRepoToggleActive(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepo(db)

	active, err := repo.ToggleActive(t.Context(), "test@chapa.com")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = repo.ToggleActive(t.Context(), "test@chapa.com")
	require.NoError(t, err)
	assert.True(t, active)

	_, err = repo.ToggleActive(t.Context(), "ghost@chapa.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepoDeleteCascadesLedger(t *testing.T) {
	db := seededDB(t)
	repo := NewUserRepo(db)
	txRepo := NewTransactionRepo(db)

	deleted, err := repo.Delete(t.Context(), "test@chapa.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(t.Context(), "test@chapa.com")
	require.NoError(t, err)
	assert.False(t, deleted)

	// The FK cascade removes the deleted account's ledger entries.
	txs, err := txRepo.ListAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, txs, 3)
	for _, tx := range txs {
		assert.Equal(t, "libamlak@chapa.com", tx.UserID)
	}
}
