package service

import (
	"context"
	"log/slog"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
)

// TransactionServiceOptions groups dependencies for TransactionService.
type TransactionServiceOptions struct {
	Transactions ports.TransactionRepository
	Cache        *cache.Cache
	Aggregates   *data.AggregateCache
	MaxSend      float64
	Logger       *slog.Logger
}

// TransactionService orchestrates wallet and ledger operations. Reads go
// through the read cache; a successful send invalidates the sender's wallet
// and ledger views plus the platform aggregates.
type TransactionService struct {
	txs        ports.TransactionRepository
	cache      *cache.Cache
	aggregates *data.AggregateCache
	maxSend    float64
	logger     *slog.Logger
}

// NewTransactionService constructs a new TransactionService.
func NewTransactionService(opts TransactionServiceOptions) *TransactionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{
		txs:        opts.Transactions,
		cache:      opts.Cache,
		aggregates: opts.Aggregates,
		maxSend:    opts.MaxSend,
		logger:     logger.With("component", "transaction_service"),
	}
}

// Wallet returns the user's balance through the read cache.
func (s *TransactionService) Wallet(ctx context.Context, email string) (*model.Wallet, error) {
	balance, err := cache.GetAs(ctx, s.cache, cache.WalletKey(email),
		func(ctx context.Context) (float64, error) {
			return s.txs.Balance(ctx, email)
		})
	if err != nil {
		return nil, err
	}
	return &model.Wallet{Balance: balance}, nil
}

// Mine returns the user's own transactions, newest first.
func (s *TransactionService) Mine(ctx context.Context, email string) ([]*model.Transaction, error) {
	return cache.GetAs(ctx, s.cache, cache.MyTransactionsKey(email),
		func(ctx context.Context) ([]*model.Transaction, error) {
			return s.txs.ListByUser(ctx, email)
		})
}

// All returns the platform-wide ledger for the admin views.
func (s *TransactionService) All(ctx context.Context) ([]*model.Transaction, error) {
	return cache.GetAs(ctx, s.cache, cache.TransactionsKey(), s.txs.ListAll)
}

// Send validates the request and records the payment. The balance check and
// debit happen atomically in the repository; there is no optimistic
// client-side decrement to undo.
func (s *TransactionService) Send(ctx context.Context, req *model.SendTransactionRequest) (*model.Transaction, error) {
	if err := req.Validate(s.maxSend); err != nil {
		return nil, err
	}

	tx, err := s.txs.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		cache.WalletKey(tx.UserID),
		cache.MyTransactionsKey(tx.UserID),
		cache.TransactionsKey(),
		cache.StatsKey(),
		cache.PaymentSummaryKey(),
	)
	if s.aggregates != nil {
		if delErr := s.aggregates.Delete(ctx, aggregateStatsKey, aggregateSummaryKey); delErr != nil {
			// Stale aggregates expire on their own TTL; log and move on.
			s.logger.WarnContext(ctx, "aggregate invalidation failed", "err", delErr)
		}
	}

	s.logger.InfoContext(ctx, "payment sent",
		"from", tx.UserID, "to", tx.To, "amount", tx.Amount)
	return tx, nil
}
