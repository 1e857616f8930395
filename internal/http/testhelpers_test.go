package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libamlakbirhanu/chapa-dashboard/internal/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/cache"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/data/memstore"
	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func (m *memSessions) Save(_ context.Context, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// newTestServer builds the full router over the seeded in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *memstore.Store) {
	t.Helper()

	store := memstore.Seeded()
	sessions := &memSessions{sessions: make(map[string]domainauth.Session)}
	remember := auth.NewRememberTokenManager("test-secret-test-secret-test-1234", "chapa-dashboard", time.Hour)
	c := cache.New(cache.Options{Attempts: 1})

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:      store,
		Sessions:   sessions,
		Remember:   remember,
		SessionTTL: time.Hour,
	})
	userSvc := service.NewUserService(service.UserServiceOptions{Users: store, Cache: c})
	txSvc := service.NewTransactionService(service.TransactionServiceOptions{
		Transactions: store,
		Cache:        c,
	})
	statsSvc := service.NewStatsService(service.StatsServiceOptions{Transactions: store, Cache: c})

	handler, err := NewRouter(RouterServices{
		Auth:         authSvc,
		Users:        userSvc,
		Transactions: txSvc,
		Stats:        statsSvc,
		Cookies:      CookieSettings{RememberTTL: time.Hour},
	})
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, store
}

// newClient returns a cookie-carrying client that does not follow redirects,
// so tests can assert on them.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func loginAs(t *testing.T, ts *httptest.Server, client *http.Client, email string) {
	t.Helper()
	resp := postJSON(t, ts, client, "/api/login", map[string]string{
		"email":    email,
		"password": memstore.DevPassword,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "login as %s", email)
}

func postJSON(t *testing.T, ts *httptest.Server, client *http.Client, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(ts.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, ts *httptest.Server, client *http.Client, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(ts.URL + path)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// jarReset replaces the client's cookie jar with one holding only the given
// cookies.
func jarReset(t *testing.T, client *http.Client, u *url.URL, cookies []*http.Cookie) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	jar.SetCookies(u, cookies)
	client.Jar = jar
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
