package httpx

import (
	"net/http"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// StatsHandlers serves the admin aggregates.
type StatsHandlers struct {
	Svc *service.StatsService
}

// Stats handles GET /api/stats.
func (h *StatsHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// PaymentSummary handles GET /api/payment-summary.
func (h *StatsHandlers) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	sums, err := h.Svc.PaymentSummaries(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sums)
}
