package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RememberTokenManager issues signed remember-tokens. The token carries only
// the account email; identity (role, username) is always re-derived from the
// store on rehydration, so a stale token can never grant a stale role.
type RememberTokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewRememberTokenManager creates a manager with the provided secret, issuer,
// and lifetime.
func NewRememberTokenManager(secret, issuer string, ttl time.Duration) *RememberTokenManager {
	return &RememberTokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue signs a token for the provided email.
func (t *RememberTokenManager) Issue(email string) (string, error) {
	if email == "" {
		return "", errors.New("email is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": t.issuer,
		"sub": email,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token, returning the email it was issued for.
func (t *RememberTokenManager) Verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", tok.Method.Alg())
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse remember token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid remember token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("remember token has no subject")
	}
	return sub, nil
}
