package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// IsAPIRequest reports whether the request targets the JSON API. API paths
// get JSON errors; everything else gets redirects and rendered views.
func IsAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// Guard implements the route gating policy. Unauthenticated requests on a
// gated path redirect to the entry route (401 JSON on API paths); an
// authenticated request whose role is outside the route's allow-list gets
// the terminal Unauthorized view (403 JSON on API paths).
type Guard struct {
	Auth    *service.AuthService
	UI      *UIHandlers
	Cookies CookieSettings
}

// RequireAuth gates a route on having any authenticated identity.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return g.require(nil, next)
}

// RequireRoles gates a route on an explicit role allow-list.
func (g *Guard) RequireRoles(allowed domainauth.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.require(allowed, next)
	}
}

// Optional resolves the session when present but never blocks the request.
// The entry route uses it to bounce authenticated visitors to their landing
// route.
func (g *Guard) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := g.resolveSession(w, r); ok {
			r = r.WithContext(SetSessionInContext(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) require(allowed domainauth.RoleSet, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := g.resolveSession(w, r)
		if !ok {
			if IsAPIRequest(r) {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if allowed != nil && !allowed.Contains(session.Role) {
			if IsAPIRequest(r) {
				WriteError(w, http.StatusForbidden, "Unauthorized")
				return
			}
			g.UI.Unauthorized(w, r.WithContext(SetSessionInContext(r.Context(), session)))
			return
		}

		ctx := SetSessionInContext(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveSession resolves the session cookie, falling back to the remember
// token: a valid token mints a fresh session and re-sets the cookies, which
// is how a browser survives session expiry without re-entering credentials.
func (g *Guard) resolveSession(w http.ResponseWriter, r *http.Request) (domainauth.Session, bool) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if session, getErr := g.Auth.GetSession(r.Context(), cookie.Value); getErr == nil {
			return session, true
		}
	}

	cookie, err := r.Cookie(RememberCookieName)
	if err != nil || cookie.Value == "" {
		return domainauth.Session{}, false
	}
	res, err := g.Auth.RehydrateFromToken(r.Context(), cookie.Value)
	if err != nil {
		g.Cookies.clear(w)
		return domainauth.Session{}, false
	}
	g.Cookies.setSession(w, res.Session)
	return res.Session, true
}
