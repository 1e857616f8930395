//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// SystemStats aggregates platform-wide counters for the statistics page.
type SystemStats struct {
	TotalPayments float64 `json:"totalPayments" db:"total_payments"`
	ActiveUsers   int     `json:"activeUsers"   db:"active_users"`
	Admins        int     `json:"admins"        db:"admins"`
}

// PaymentSummary is the per-user aggregate shown on the payment summary page.
type PaymentSummary struct {
	UserID           string  `json:"userId"           db:"user_id"`
	Username         string  `json:"username"         db:"username"`
	TotalSent        float64 `json:"totalSent"        db:"total_sent"`
	TotalReceived    float64 `json:"totalReceived"    db:"total_received"`
	TransactionCount int     `json:"transactionCount" db:"transaction_count"`
}
