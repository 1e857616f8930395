package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users      ports.UserRepository
	Cache      *cache.Cache
	Aggregates *data.AggregateCache
	Logger     *slog.Logger
}

// UserService orchestrates account reads and admin account management.
// List reads go through the read cache; every mutation invalidates the
// affected keys so the next read refetches.
type UserService struct {
	users      ports.UserRepository
	cache      *cache.Cache
	aggregates *data.AggregateCache
	logger     *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:      opts.Users,
		cache:      opts.Cache,
		aggregates: opts.Aggregates,
		logger:     logger.With("component", "user_service"),
	}
}

// GetByEmail returns one account; the identity rehydration read.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// List returns the end-user accounts through the read cache.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return cache.GetAs(ctx, s.cache, cache.UsersKey(), s.users.ListEndUsers)
}

// CompanyUsers returns admin accounts excluding the caller, cached per
// caller since the exclusion makes the list viewer-specific.
func (s *UserService) CompanyUsers(ctx context.Context, viewerEmail string) ([]*model.User, error) {
	return cache.GetAs(ctx, s.cache, cache.CompanyUsersKey(viewerEmail),
		func(ctx context.Context) ([]*model.User, error) {
			return s.users.ListCompanyUsers(ctx, viewerEmail)
		})
}

// ToggleActive flips an account's active flag and invalidates the user lists.
func (s *UserService) ToggleActive(ctx context.Context, email string) (bool, error) {
	active, err := s.users.ToggleActive(ctx, email)
	if err != nil {
		return false, err
	}
	s.invalidateUserState(ctx)
	s.logger.InfoContext(ctx, "toggled account", "email", email, "active", active)
	return active, nil
}

// Remove hard-deletes an account. Removing an unknown email is NotFound so
// the admin UI can tell the row already vanished.
func (s *UserService) Remove(ctx context.Context, email string) error {
	deleted, err := s.users.Delete(ctx, email)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("User not found")
	}
	s.invalidateUserState(ctx)
	// Deleting an account cascades its ledger entries, so every cached
	// transaction view involving it goes stale too.
	s.cache.Invalidate(
		cache.TransactionsKey(),
		cache.WalletKey(email),
		cache.MyTransactionsKey(email),
	)
	s.logger.InfoContext(ctx, "removed account", "email", email)
	return nil
}

// AddAdmin creates an admin or super-admin account with a hashed password.
func (s *UserService) AddAdmin(ctx context.Context, req *model.AddAdminRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not hash password")
	}

	created, err := s.users.CreateAdmin(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		Role:         req.Role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	s.invalidateUserState(ctx)
	s.logger.InfoContext(ctx, "added admin", "email", created.Email, "role", created.Role)
	return created, nil
}

// invalidateUserState drops every cached read derived from account state:
// the user lists plus the stats and payment-summary aggregates, whose
// active-user and admin counts change with account mutations.
func (s *UserService) invalidateUserState(ctx context.Context) {
	s.cache.Invalidate(cache.UsersKey(), cache.StatsKey(), cache.PaymentSummaryKey())
	s.cache.InvalidateResource(cache.ResourceCompanyUsers)
	if s.aggregates != nil {
		if err := s.aggregates.Delete(ctx, aggregateStatsKey, aggregateSummaryKey); err != nil {
			// Stale aggregates expire on their own TTL; log and move on.
			s.logger.WarnContext(ctx, "aggregate invalidation failed", "err", err)
		}
	}
}
