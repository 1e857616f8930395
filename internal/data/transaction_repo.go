package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/pgxutil"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

// TransactionRepo provides Postgres-backed ledger storage.
type TransactionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTransactionRepo creates a new TransactionRepo with the real time provider.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTransactionRepoWithTimeProvider creates a TransactionRepo with a custom time provider.
func NewTransactionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TransactionRepo {
	return &TransactionRepo{DB: db, timeProvider: tp}
}

const txColumns = `id, user_id, amount, recipient, tx_date`

const (
	txListAllQuery = `
		SELECT ` + txColumns + `
		FROM transactions
		ORDER BY id DESC`

	txListByUserQuery = `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY id DESC`

	txStatsQuery = `
		SELECT
			COALESCE((SELECT SUM(ABS(amount)) FROM transactions), 0) AS total_payments,
			(SELECT COUNT(*) FROM users WHERE active)                 AS active_users,
			(SELECT COUNT(*) FROM users WHERE role IN ('admin', 'super-admin')) AS admins`

	txSummaryQuery = `
		SELECT
			u.email                                                    AS user_id,
			u.username                                                 AS username,
			COALESCE(SUM(ABS(t.amount)) FILTER (WHERE t.amount < 0), 0) AS total_sent,
			COALESCE(SUM(t.amount)      FILTER (WHERE t.amount > 0), 0) AS total_received,
			COUNT(t.id)                                                AS transaction_count
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.email
		WHERE u.role = 'user'
		GROUP BY u.email, u.username
		ORDER BY u.email`
)

// ListAll returns every transaction, newest first.
func (r *TransactionRepo) ListAll(ctx context.Context) ([]*model.Transaction, error) {
	return r.list(ctx, txListAllQuery)
}

// ListByUser returns the transactions belonging to the given email.
func (r *TransactionRepo) ListByUser(ctx context.Context, email string) ([]*model.Transaction, error) {
	return r.list(ctx, txListByUserQuery, normalizeEmail(email))
}

// Balance returns the wallet balance for the user.
func (r *TransactionRepo) Balance(ctx context.Context, email string) (float64, error) {
	var balance float64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT balance FROM users WHERE email = $1`, normalizeEmail(email),
		).Scan(&balance)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("User not found")
		}
		return 0, apperrors.MapDBError(err)
	}
	return balance, nil
}

// Send atomically checks and debits the sender's balance, then appends an
// outgoing ledger entry. The balance row is locked for the duration of the
// transaction so concurrent sends cannot overdraw.
func (r *TransactionRepo) Send(ctx context.Context, req *model.SendTransactionRequest) (*model.Transaction, error) {
	if req == nil {
		return nil, errors.New("send request is required")
	}

	amount := float64(req.Amount)
	sender := normalizeEmail(req.UserID)
	now := r.timeProvider.Now().UTC()

	var out model.Transaction
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		var balance float64
		if err := tx.QueryRow(ctx,
			`SELECT balance FROM users WHERE email = $1 FOR UPDATE`, sender,
		).Scan(&balance); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("User not found")
			}
			return err
		}
		if amount > balance {
			return apperrors.BusinessRule("Insufficient balance")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE users SET balance = balance - $2, updated_at = $3 WHERE email = $1`,
			sender, amount, now,
		); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO transactions (user_id, amount, recipient, tx_date)
			VALUES ($1, $2, $3, $4)
			RETURNING `+txColumns,
			sender, -amount, strings.TrimSpace(req.To), now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Transaction])
		return err
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Stats computes platform-wide aggregates.
func (r *TransactionRepo) Stats(ctx context.Context) (*model.SystemStats, error) {
	var out model.SystemStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, txStatsQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SystemStats])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// PaymentSummaries computes per-end-user aggregates.
func (r *TransactionRepo) PaymentSummaries(ctx context.Context) ([]*model.PaymentSummary, error) {
	var rowsOut []model.PaymentSummary
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, txSummaryQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PaymentSummary])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	res := make([]*model.PaymentSummary, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*model.Transaction, error) {
	var rowsOut []model.Transaction
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Transaction])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	res := make([]*model.Transaction, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
