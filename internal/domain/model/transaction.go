//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

const maxRecipientLen = 120

// DateOnly is a calendar date serialized as "2006-01-02", matching the wire
// format transaction dates have always used.
type DateOnly time.Time

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = DateOnly(t)
	return nil
}

// Time returns the underlying time value.
func (d DateOnly) Time() time.Time { return time.Time(d) }

// Scan implements sql.Scanner so DATE columns load directly into DateOnly.
func (d *DateOnly) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOnly(v)
		return nil
	case string:
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		*d = DateOnly(t)
		return nil
	case nil:
		*d = DateOnly{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", src)
	}
}

// Value implements driver.Valuer.
func (d DateOnly) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Transaction is a single ledger entry. Amount is signed: negative means
// outgoing, positive incoming. Records are immutable once written; a send
// appends a new record server-side.
type Transaction struct {
	ID     int64    `json:"id"     db:"id"`
	UserID string   `json:"userId" db:"user_id"`
	Amount float64  `json:"amount" db:"amount"`
	To     string   `json:"to"     db:"recipient"`
	Date   DateOnly `json:"date"   db:"tx_date"`
}

// Amount arrives from the send form as either a JSON number or the raw
// string the input field held. Both decode into AmountValue.
type AmountValue float64

// UnmarshalJSON accepts a number or a numeric string.
func (a *AmountValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, err)
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a usable amount.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("parse amount %q: not a finite number", s)
	}
	*a = AmountValue(f)
	return nil
}

// SendTransactionRequest is the body of POST /api/transactions/send.
type SendTransactionRequest struct {
	Amount AmountValue `json:"amount"`
	To     string      `json:"to"`
	UserID string      `json:"userId"`
}

// Validate applies the client-side rules: non-empty recipient, positive
// amount, bounded above by maxAmount. The insufficient-balance check stays
// server-side in the transaction repo.
func (r *SendTransactionRequest) Validate(maxAmount float64) error {
	if strings.TrimSpace(r.To) == "" {
		return apperrors.ValidationField("to", "Recipient is required")
	}
	if len(r.To) > maxRecipientLen {
		return apperrors.ValidationField("to", "Recipient is too long")
	}
	amount := float64(r.Amount)
	// NaN slips past ordinary comparisons (every one is false), so non-finite
	// values are rejected explicitly before the range checks.
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return apperrors.ValidationField("amount", "Amount must be a positive number")
	}
	if maxAmount > 0 && amount > maxAmount {
		return apperrors.ValidationField("amount", fmt.Sprintf("Amount may not exceed %.2f", maxAmount))
	}
	if strings.TrimSpace(r.UserID) == "" {
		return apperrors.ValidationField("userId", "Sender is required")
	}
	return nil
}

// Wallet is the balance view for the current user.
type Wallet struct {
	Balance float64 `json:"balance"`
}
