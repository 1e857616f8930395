package httpx

import (
	"net/http"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// TransactionHandlers serves the wallet and ledger endpoints.
type TransactionHandlers struct {
	Svc *service.TransactionService
}

// Wallet handles GET /api/wallet: the current user's balance.
func (h *TransactionHandlers) Wallet(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	wallet, err := h.Svc.Wallet(r.Context(), session.Email)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, wallet)
}

// Mine handles GET /api/transactions/mine?email=. The email defaults to the
// session's; end users may only read their own history.
func (h *TransactionHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	email := r.URL.Query().Get("email")
	if email == "" {
		email = session.Email
	}
	if !session.Role.IsAdmin() && !domainauth.SameEmail(session.Email, email) {
		WriteError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	txs, err := h.Svc.Mine(r.Context(), email)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txs)
}

// All handles GET /api/transactions: the platform-wide ledger.
func (h *TransactionHandlers) All(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Svc.All(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txs)
}

// Send handles POST /api/transactions/send. The sender is always the
// session user regardless of the userId the form carried.
func (h *TransactionHandlers) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendTransactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	session, _ := SessionFromContext(r.Context())
	req.UserID = session.Email

	tx, err := h.Svc.Send(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, tx)
}
