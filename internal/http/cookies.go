package httpx

import (
	"net/http"
	"time"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
)

const (
	// SessionCookieName carries the opaque server-side session ID.
	SessionCookieName = "session_id"
	// RememberCookieName carries the signed rehydration token.
	RememberCookieName = "remember_token"
)

// CookieSettings controls the attributes on auth cookies.
type CookieSettings struct {
	Domain      string
	Secure      bool
	RememberTTL time.Duration
}

func (c CookieSettings) setSession(w http.ResponseWriter, sess domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieSettings) setRemember(w http.ResponseWriter, token string) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  time.Now().Add(c.RememberTTL),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieSettings) clear(w http.ResponseWriter) {
	for _, name := range []string{SessionCookieName, RememberCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   c.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
