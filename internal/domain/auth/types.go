package auth

// Package auth contains domain-level types for identity, roles, and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role is the application authorization role. Kept in string form for easy
// persistence and cookies. Valid values are defined as constants below.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// LandingPath returns the route a freshly authenticated user of this role
// should land on.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return "/admin/users"
	default:
		return "/dashboard"
	}
}

// IsAdmin reports whether the role carries admin-level access.
func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// RoleSet is a route allow-list. Routes declare the set of roles permitted
// to view them; membership is checked against the closed enumeration.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether the role is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// SameEmail compares two email addresses case-insensitively, the way the
// store keys them.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Identity is the authenticated principal: who the user is for the lifetime
// of a session.
type Identity struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier (random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity returns the identity carried by the session.
func (s Session) Identity() Identity {
	return Identity{Email: s.Email, Username: s.Username, Role: s.Role}
}
