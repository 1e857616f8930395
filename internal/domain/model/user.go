//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/mail"
	"strings"
	"time"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
)

const maxUsernameLen = 100

// User is an account as the admin views see it. Balance is
// server-authoritative; the client never mutates it directly.
type User struct {
	ID           string          `json:"id"       db:"id"`
	Email        string          `json:"email"    db:"email"`
	Username     string          `json:"username" db:"username"`
	Role         domainauth.Role `json:"role"     db:"role"`
	Active       bool            `json:"active"   db:"active"`
	Balance      float64         `json:"balance"  db:"balance"`
	PasswordHash string          `json:"-"        db:"password_hash"`
	CreatedAt    time.Time       `json:"-"        db:"created_at"`
	UpdatedAt    time.Time       `json:"-"        db:"updated_at"`
}

// Identity projects the user onto the session identity shape.
func (u *User) Identity() domainauth.Identity {
	return domainauth.Identity{Email: u.Email, Username: u.Username, Role: u.Role}
}

// LoginRequest carries credentials for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login request shape before hitting the store.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.ValidationField("email", "Email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.ValidationField("email", "Email is not valid")
	}
	if r.Password == "" {
		return apperrors.ValidationField("password", "Password is required")
	}
	return nil
}

// AddAdminRequest creates an admin or super-admin account.
// POST /api/admins/add.
type AddAdminRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domainauth.Role `json:"role"`
}

// Validate rejects missing fields (400) and non-admin roles.
func (r *AddAdminRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return apperrors.Validation("Missing required fields")
	}
	if utf8Len(r.Username) > maxUsernameLen {
		return apperrors.ValidationField("username", "Username is too long")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.ValidationField("email", "Email is not valid")
	}
	role, ok := domainauth.ParseRole(string(r.Role))
	if !ok || !role.IsAdmin() {
		return apperrors.ValidationField("role", "Role must be admin or super-admin")
	}
	return nil
}

func utf8Len(s string) int { return len([]rune(s)) }
