// Package devseed loads the demo data set into Postgres on startup in
// development mode. Seeding is idempotent: existing accounts are left alone
// and the ledger is only populated when it is empty.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/pgxutil"
	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
)

// DevPassword is the shared password for seeded dev accounts.
const DevPassword = "123456"

// Run seeds the demo accounts and ledger entries into the database.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DevPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev password: %w", err)
	}

	return pgxutil.WithPgxTx(ctx, db, func(tx pgx.Tx) error {
		if err := seedUsers(ctx, tx, string(hash), logger); err != nil {
			return err
		}
		return seedTransactions(ctx, tx, logger)
	})
}

func seedUsers(ctx context.Context, tx pgx.Tx, hash string, logger *slog.Logger) error {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, u := range seedAccounts() {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		tag, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, username, role, active, balance, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $7)
			ON CONFLICT (email) DO NOTHING`,
			uuid.NewString(), u.Email, u.Username, string(u.Role), u.Balance, hash, createdAt)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		msg := "account already exists"
		if tag.RowsAffected() > 0 {
			msg = "created account"
		}
		logger.InfoContext(ctx, msg, "email", u.Email, "role", u.Role)
	}
	return nil
}

func seedTransactions(ctx context.Context, tx pgx.Tx, logger *slog.Logger) error {
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if count > 0 {
		logger.InfoContext(ctx, "ledger already populated", "entries", count)
		return nil
	}

	for _, entry := range seedLedger() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO transactions (user_id, amount, recipient, tx_date)
			VALUES ($1, $2, $3, $4)`,
			entry.UserID, entry.Amount, entry.To, entry.Date.Time()); err != nil {
			return fmt.Errorf("seed transaction for %s: %w", entry.UserID, err)
		}
	}
	logger.InfoContext(ctx, "seeded ledger", "entries", len(seedLedger()))
	return nil
}

func seedAccounts() []model.User {
	return []model.User{
		{Email: "libamlak@chapa.com", Username: "libamlak", Role: domainauth.RoleUser, Balance: 3000},
		{Email: "test@chapa.com", Username: "test", Role: domainauth.RoleUser, Balance: 2000},
		{Email: "admin@chapa.com", Username: "admin", Role: domainauth.RoleAdmin, Balance: 1000},
		{Email: "superadmin@chapa.com", Username: "superadmin", Role: domainauth.RoleSuperAdmin, Balance: 1000},
	}
}

func seedLedger() []model.Transaction {
	return []model.Transaction{
		{UserID: "libamlak@chapa.com", Amount: -200, To: "Abebe", Date: date(2024, 5, 1)},
		{UserID: "libamlak@chapa.com", Amount: 500, To: "libamlak", Date: date(2024, 5, 3)},
		{UserID: "libamlak@chapa.com", Amount: -120, To: "Kebede", Date: date(2024, 5, 10)},
		{UserID: "test@chapa.com", Amount: -300, To: "Sara", Date: date(2024, 5, 2)},
		{UserID: "test@chapa.com", Amount: 150, To: "test", Date: date(2024, 5, 6)},
		{UserID: "test@chapa.com", Amount: -75, To: "Hanna", Date: date(2024, 5, 12)},
	}
}

func date(y int, m time.Month, d int) model.DateOnly {
	return model.DateOnly(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
