package ports

// Package ports defines interfaces (hexagonal ports) for the application
// core. Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.

import (
	"context"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
)

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RememberTokenManager signs and verifies the rehydration token that lets a
// browser re-derive its identity after a reload without credentials.
type RememberTokenManager interface {
	Issue(email string) (string, error)
	Verify(token string) (email string, err error)
}
