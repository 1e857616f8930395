package util //nolint:revive // package name util hosts shared formatting helpers used across HTTP templates

import (
	"fmt"
	"time"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
)

// FormatMoney renders a monetary amount with two decimal places for display.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatDate renders a ledger date as YYYY-MM-DD. The zero date renders
// empty rather than the epoch.
func FormatDate(d model.DateOnly) string {
	t := d.Time()
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
