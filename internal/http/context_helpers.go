package httpx

import (
	"context"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across
// packages.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session placed by the auth middleware and a
// boolean indicating presence.
func SessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return session, ok
}
