package cache

import "strings"

// Key identifies one cached resource. Resource is the coarse tag mutations
// invalidate by; Param scopes per-user variants (email, usually).
type Key struct {
	Resource string
	Param    string
}

// String renders the key for logging and flight grouping.
func (k Key) String() string {
	if k.Param == "" {
		return k.Resource
	}
	return k.Resource + ":" + strings.ToLower(k.Param)
}

// Resource tags. Kept as constants so mutation paths and read paths cannot
// drift apart.
const (
	ResourceUsers          = "users"
	ResourceCompanyUsers   = "company-users"
	ResourceWallet         = "wallet"
	ResourceTransactions   = "transactions"
	ResourceMyTransactions = "my-transactions"
	ResourceStats          = "stats"
	ResourcePaymentSummary = "payment-summary"
)

// UsersKey covers the end-user list on the admin pages.
func UsersKey() Key { return Key{Resource: ResourceUsers} }

// CompanyUsersKey covers the employees list, scoped by the viewing admin
// since the list excludes the caller.
func CompanyUsersKey(email string) Key { return Key{Resource: ResourceCompanyUsers, Param: email} }

// WalletKey covers one user's balance.
func WalletKey(email string) Key { return Key{Resource: ResourceWallet, Param: email} }

// TransactionsKey covers the platform-wide ledger.
func TransactionsKey() Key { return Key{Resource: ResourceTransactions} }

// MyTransactionsKey covers one user's ledger slice.
func MyTransactionsKey(email string) Key { return Key{Resource: ResourceMyTransactions, Param: email} }

// StatsKey covers the statistics aggregates.
func StatsKey() Key { return Key{Resource: ResourceStats} }

// PaymentSummaryKey covers the per-user payment summary.
func PaymentSummaryKey() Key { return Key{Resource: ResourcePaymentSummary} }
