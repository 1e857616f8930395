// Package memstore is an in-memory implementation of the account and ledger
// repositories. It backs dev mode (no Postgres required) and the test suite,
// and its seed data mirrors the fixtures the product demos with.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

// Store holds users and transactions guarded by a single mutex.
type Store struct {
	mu     sync.Mutex
	users  map[string]*model.User // keyed by lowercase email
	txs    []*model.Transaction
	nextID int64
	now    func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:  make(map[string]*model.User),
		nextID: 1,
		now:    time.Now,
	}
}

// NewWithClock creates an empty store with a custom clock (useful for tests).
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

// AddUser inserts or replaces a user, for seeding and tests.
func (s *Store) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[normalize(u.Email)] = &u
}

// AddTransaction appends a ledger entry, for seeding and tests.
func (s *Store) AddTransaction(tx model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = s.nextID
	}
	if tx.ID >= s.nextID {
		s.nextID = tx.ID + 1
	}
	s.txs = append(s.txs, &tx)
}

// GetByEmail returns a copy of the user or a NotFound error.
func (s *Store) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalize(email)]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	out := *u
	return &out, nil
}

// ListEndUsers returns accounts with the end-user role.
func (s *Store) ListEndUsers(_ context.Context) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(u *model.User) bool { return u.Role == domainauth.RoleUser }), nil
}

// ListCompanyUsers returns admin and super-admin accounts excluding the caller.
func (s *Store) ListCompanyUsers(_ context.Context, excludeEmail string) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exclude := normalize(excludeEmail)
	return s.filter(func(u *model.User) bool {
		return u.Role.IsAdmin() && normalize(u.Email) != exclude
	}), nil
}

// CreateAdmin inserts a new admin/super-admin account.
func (s *Store) CreateAdmin(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalize(u.Email)
	if _, exists := s.users[key]; exists {
		return nil, apperrors.Conflict("User with this email already exists")
	}
	stored := *u
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Email = key
	stored.Active = true
	stored.Balance = 0
	stored.CreatedAt = s.now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.users[key] = &stored
	out := stored
	return &out, nil
}

// ToggleActive flips the active flag and returns the new value.
func (s *Store) ToggleActive(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalize(email)]
	if !ok {
		return false, apperrors.NotFound("User not found")
	}
	u.Active = !u.Active
	u.UpdatedAt = s.now().UTC()
	return u.Active, nil
}

// Delete removes an account by email.
func (s *Store) Delete(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalize(email)
	if _, ok := s.users[key]; !ok {
		return false, nil
	}
	delete(s.users, key)
	// The Postgres schema cascades the ledger on account deletion.
	kept := s.txs[:0]
	for _, tx := range s.txs {
		if normalize(tx.UserID) != key {
			kept = append(kept, tx)
		}
	}
	s.txs = kept
	return true, nil
}

// ListAll returns every transaction, newest first.
func (s *Store) ListAll(_ context.Context) ([]*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterTxs(func(*model.Transaction) bool { return true }), nil
}

// ListByUser returns the transactions belonging to the given email.
func (s *Store) ListByUser(_ context.Context, email string) ([]*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalize(email)
	return s.filterTxs(func(tx *model.Transaction) bool { return normalize(tx.UserID) == key }), nil
}

// Balance returns the wallet balance for the user.
func (s *Store) Balance(_ context.Context, email string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalize(email)]
	if !ok {
		return 0, apperrors.NotFound("User not found")
	}
	return u.Balance, nil
}

// Send checks and debits the sender's balance and appends an outgoing entry,
// all under the store lock.
func (s *Store) Send(_ context.Context, req *model.SendTransactionRequest) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.users[normalize(req.UserID)]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	amount := float64(req.Amount)
	if amount > sender.Balance {
		return nil, apperrors.BusinessRule("Insufficient balance")
	}

	sender.Balance -= amount
	sender.UpdatedAt = s.now().UTC()

	tx := &model.Transaction{
		ID:     s.nextID,
		UserID: normalize(req.UserID),
		Amount: -amount,
		To:     strings.TrimSpace(req.To),
		Date:   model.DateOnly(s.now().UTC()),
	}
	s.nextID++
	s.txs = append(s.txs, tx)

	out := *tx
	return &out, nil
}

// Stats computes platform-wide aggregates.
func (s *Store) Stats(_ context.Context) (*model.SystemStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &model.SystemStats{}
	for _, tx := range s.txs {
		out.TotalPayments += abs(tx.Amount)
	}
	for _, u := range s.users {
		if u.Active {
			out.ActiveUsers++
		}
		if u.Role.IsAdmin() {
			out.Admins++
		}
	}
	return out, nil
}

// PaymentSummaries computes per-end-user aggregates.
func (s *Store) PaymentSummaries(_ context.Context) ([]*model.PaymentSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*model.PaymentSummary
	for _, u := range s.users {
		if u.Role != domainauth.RoleUser {
			continue
		}
		sum := &model.PaymentSummary{UserID: u.Email, Username: u.Username}
		for _, tx := range s.txs {
			if normalize(tx.UserID) != normalize(u.Email) {
				continue
			}
			sum.TransactionCount++
			if tx.Amount < 0 {
				sum.TotalSent += -tx.Amount
			} else {
				sum.TotalReceived += tx.Amount
			}
		}
		res = append(res, sum)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UserID < res[j].UserID })
	return res, nil
}

func (s *Store) filter(keep func(*model.User) bool) []*model.User {
	var res []*model.User
	for _, u := range s.users {
		if keep(u) {
			out := *u
			res = append(res, &out)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res
}

func (s *Store) filterTxs(keep func(*model.Transaction) bool) []*model.Transaction {
	var res []*model.Transaction
	for _, tx := range s.txs {
		if keep(tx) {
			out := *tx
			res = append(res, &out)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
