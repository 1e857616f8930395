package httpx

import (
	"net/http"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// UserHandlers serves account reads and admin account management.
type UserHandlers struct {
	Users *service.UserService
	Auth  *service.AuthService
}

// Rehydrate handles GET /api/users/{email}: re-derives the identity the
// client persisted. End users may only rehydrate themselves.
func (h *UserHandlers) Rehydrate(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	session, _ := SessionFromContext(r.Context())
	if !session.Role.IsAdmin() && !domainauth.SameEmail(session.Email, email) {
		WriteError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	identity, err := h.Auth.Rehydrate(r.Context(), email)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, identity)
}

// List handles GET /api/users: the end-user accounts.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// Toggle handles POST /api/users/{id}/toggle. Accounts are addressed by
// email throughout the API.
func (h *UserHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	active, err := h.Users.ToggleActive(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"active": active})
}

// Remove handles POST /api/users/{id}/remove.
func (h *UserHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Remove(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

// CompanyUsers handles GET /api/company-users: admin and super-admin
// accounts excluding the caller.
func (h *UserHandlers) CompanyUsers(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	users, err := h.Users.CompanyUsers(r.Context(), session.Email)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// AddAdmin handles POST /api/admins/add: 400 on missing fields, 409 on a
// duplicate email.
func (h *UserHandlers) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req model.AddAdminRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	created, err := h.Users.AddAdmin(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// RemoveAdmin handles POST /api/admins/remove. An admin cannot remove their
// own account.
func (h *UserHandlers) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	session, _ := SessionFromContext(r.Context())
	if domainauth.SameEmail(session.Email, req.Email) {
		WriteAppError(w, apperrors.Validation("Cannot remove your own account"))
		return
	}
	if err := h.Users.Remove(r.Context(), req.Email); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
