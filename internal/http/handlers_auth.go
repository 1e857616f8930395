package httpx

import (
	"log/slog"
	"net/http"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// AuthHandlers serves login and logout.
type AuthHandlers struct {
	Svc     *service.AuthService
	Cookies CookieSettings
	Logger  *slog.Logger
}

// Login handles POST /api/login. A successful login sets the session and
// remember cookies and returns the identity as {email, role, username}.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Login(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.Cookies.setSession(w, res.Session)
	h.Cookies.setRemember(w, res.RememberToken)
	WriteJSON(w, http.StatusOK, res.Identity)
}

// Logout handles POST /api/logout and the browser's POST /logout. The server
// session is deleted and both cookies cleared either way.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if delErr := h.Svc.Logout(r.Context(), cookie.Value); delErr != nil {
			h.Logger.Warn("logout: session delete failed", "err", delErr)
		}
	}
	h.Cookies.clear(w)

	if IsAPIRequest(r) {
		WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
