package ports

import (
	"context"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
)

// UserRepository provides account storage.
type UserRepository interface {
	// GetByEmail returns a user or a NotFound AppError.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListEndUsers returns accounts with the end-user role.
	ListEndUsers(ctx context.Context) ([]*model.User, error)
	// ListCompanyUsers returns admin and super-admin accounts, excluding the
	// caller's own email.
	ListCompanyUsers(ctx context.Context, excludeEmail string) ([]*model.User, error)
	// CreateAdmin inserts a new admin/super-admin account. Duplicate email
	// yields a Conflict AppError.
	CreateAdmin(ctx context.Context, u *model.User) (*model.User, error)
	// ToggleActive flips the active flag, returning the new value.
	ToggleActive(ctx context.Context, email string) (bool, error)
	// Delete removes an account by email. Hard delete per product decision.
	Delete(ctx context.Context, email string) (bool, error)
}

// TransactionRepository provides ledger storage.
type TransactionRepository interface {
	// ListAll returns every transaction, newest first.
	ListAll(ctx context.Context) ([]*model.Transaction, error)
	// ListByUser returns the transactions where user_id matches the email.
	ListByUser(ctx context.Context, email string) ([]*model.Transaction, error)
	// Send atomically checks the sender's balance, debits it, and appends an
	// outgoing ledger entry. Over-balance sends fail with a BusinessRule
	// AppError whose message contains "Insufficient balance".
	Send(ctx context.Context, req *model.SendTransactionRequest) (*model.Transaction, error)
	// Balance returns the wallet balance for the user.
	Balance(ctx context.Context, email string) (float64, error)
	// Stats computes platform-wide aggregates.
	Stats(ctx context.Context) (*model.SystemStats, error)
	// PaymentSummaries computes per-end-user aggregates.
	PaymentSummaries(ctx context.Context) ([]*model.PaymentSummary, error)
}
