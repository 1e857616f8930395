package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/pgxutil"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

// UserRepo provides Postgres-backed account storage.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with the real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = `id, email, username, role, active, balance, password_hash, created_at, updated_at`

const (
	userGetByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	userListEndUsersQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'user'
		ORDER BY created_at ASC`

	userListCompanyQuery = `
		SELECT ` + userColumns + `
		FROM users
		WHERE role IN ('admin', 'super-admin') AND email <> $1
		ORDER BY created_at ASC`
)

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userGetByEmailQuery, normalizeEmail(email))
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListEndUsers returns accounts with the end-user role.
func (r *UserRepo) ListEndUsers(ctx context.Context) ([]*model.User, error) {
	return r.list(ctx, userListEndUsersQuery)
}

// ListCompanyUsers returns admin and super-admin accounts excluding the caller.
func (r *UserRepo) ListCompanyUsers(ctx context.Context, excludeEmail string) ([]*model.User, error) {
	return r.list(ctx, userListCompanyQuery, normalizeEmail(excludeEmail))
}

// CreateAdmin inserts a new admin/super-admin account.
func (r *UserRepo) CreateAdmin(ctx context.Context, u *model.User) (*model.User, error) {
	if u == nil {
		return nil, errors.New("user is required")
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (id, email, username, role, active, balance, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, TRUE, 0, $5, $6, $6)
			RETURNING `+userColumns,
			u.ID,
			normalizeEmail(u.Email),
			strings.TrimSpace(u.Username),
			u.Role,
			u.PasswordHash,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, apperrors.Conflict("User with this email already exists")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ToggleActive flips the active flag and returns the new value.
func (r *UserRepo) ToggleActive(ctx context.Context, email string) (bool, error) {
	var active bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			UPDATE users
			SET active = NOT active, updated_at = $2
			WHERE email = $1
			RETURNING active`,
			normalizeEmail(email), r.timeProvider.Now().UTC(),
		).Scan(&active)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NotFound("User not found")
		}
		return false, apperrors.MapDBError(err)
	}
	return active, nil
}

// Delete removes an account by email.
func (r *UserRepo) Delete(ctx context.Context, email string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE email = $1`, normalizeEmail(email))
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return rows > 0, nil
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
