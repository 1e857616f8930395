package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "admin@chapa.com")

	resp := get(t, ts, client, "/api/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeBody(t, resp, &users)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "user", u.Role)
	}
}

func TestToggleEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "admin@chapa.com")

	resp := postJSON(t, ts, client, "/api/users/test@chapa.com/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Active bool `json:"active"`
	}
	decodeBody(t, resp, &body)
	assert.False(t, body.Active)

	resp = postJSON(t, ts, client, "/api/users/test@chapa.com/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.True(t, body.Active)

	resp = postJSON(t, ts, client, "/api/users/ghost@chapa.com/toggle", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRemoveEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "admin@chapa.com")

	resp := postJSON(t, ts, client, "/api/users/test@chapa.com/remove", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = get(t, ts, client, "/api/users")
	var users []struct {
		Email string `json:"email"`
	}
	decodeBody(t, resp, &users)
	assert.Len(t, users, 1)
}

func TestCompanyUsersExcludesCaller(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "superadmin@chapa.com")

	resp := get(t, ts, client, "/api/company-users")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		Email string `json:"email"`
	}
	decodeBody(t, resp, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@chapa.com", users[0].Email)
}

func TestAddAdminEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "superadmin@chapa.com")

	resp := postJSON(t, ts, client, "/api/admins/add", map[string]string{
		"username": "newbie",
		"email":    "newbie@chapa.com",
		"password": "secret123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "newbie@chapa.com", created.Email)
	assert.Equal(t, "admin", created.Role)

	// Missing fields -> 400 with the canonical message.
	resp = postJSON(t, ts, client, "/api/admins/add", map[string]string{
		"email": "x@chapa.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "Missing required fields", errBody.Error)

	// Duplicate email -> 409.
	resp = postJSON(t, ts, client, "/api/admins/add", map[string]string{
		"username": "dup",
		"email":    "newbie@chapa.com",
		"password": "secret123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "User with this email already exists", errBody.Error)
}

func TestAddAdminForbiddenForAdmin(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "admin@chapa.com")

	resp := postJSON(t, ts, client, "/api/admins/add", map[string]string{
		"username": "x", "email": "x@chapa.com", "password": "x", "role": "admin",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRemoveAdminEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	client := newClient(t)
	loginAs(t, ts, client, "superadmin@chapa.com")

	resp := postJSON(t, ts, client, "/api/admins/remove", map[string]string{
		"email": "admin@chapa.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Self-removal is rejected.
	resp = postJSON(t, ts, client, "/api/admins/remove", map[string]string{
		"email": "superadmin@chapa.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "Cannot remove your own account", errBody.Error)
}
