package bootstrap

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

// memSessionStore keeps sessions in process memory. Memory storage mode only;
// sessions vanish on restart, which is acceptable for dev and demos.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *memSessionStore) Save(_ context.Context, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memSessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, apperrors.NotFound("Session not found")
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(m.sessions, id)
		return domainauth.Session{}, apperrors.NotFound("Session not found")
	}
	return sess, nil
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
