package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      ports.UserRepository
	Sessions   ports.SessionStore
	Remember   ports.RememberTokenManager
	SessionTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// AuthService handles credential checks and the session lifecycle.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	remember   ports.RememberTokenManager
	sessionTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Sessions,
		remember:   opts.Remember,
		sessionTTL: opts.SessionTTL,
		now:        now,
		logger:     logger.With("component", "auth_service"),
	}
}

// LoginResult is what a successful login hands back to the HTTP layer.
type LoginResult struct {
	Identity      domainauth.Identity
	Session       domainauth.Session
	RememberToken string
}

// Login verifies the credentials and creates a server-side session. Bad
// email, bad password and disabled accounts all collapse into the same
// Unauthorized message so the response never confirms which part was wrong.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	res := &LoginResult{Identity: user.Identity(), Session: sess}
	if s.remember != nil {
		token, tokenErr := s.remember.Issue(user.Email)
		if tokenErr != nil {
			// Login still succeeds; the browser just cannot rehydrate later.
			s.logger.WarnContext(ctx, "issue remember token failed", "err", tokenErr)
		} else {
			res.RememberToken = token
		}
	}

	s.logger.InfoContext(ctx, "login", "email", user.Email, "role", user.Role)
	return res, nil
}

// GetSession resolves a session cookie value to a live session.
func (s *AuthService) GetSession(ctx context.Context, id string) (domainauth.Session, error) {
	return s.sessions.Get(ctx, id)
}

// Rehydrate re-derives the identity for an email, used by the client after a
// reload. Unknown or disabled accounts yield NotFound so the caller clears
// its identity instead of crashing.
func (s *AuthService) Rehydrate(ctx context.Context, email string) (domainauth.Identity, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if !user.Active {
		return domainauth.Identity{}, apperrors.NotFound("User not found")
	}
	return user.Identity(), nil
}

// RehydrateFromToken turns a valid remember token into a fresh session.
func (s *AuthService) RehydrateFromToken(ctx context.Context, token string) (*LoginResult, error) {
	if s.remember == nil {
		return nil, apperrors.Unauthorized("Session expired")
	}
	email, err := s.remember.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Session expired")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || !user.Active {
		return nil, apperrors.Unauthorized("Session expired")
	}
	sess, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Identity: user.Identity(), Session: sess}, nil
}

// Logout deletes the server-side session. Missing sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.sessions.Delete(ctx, id)
}

func (s *AuthService) createSession(ctx context.Context, user *model.User) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not create session")
	}
	return sess, nil
}
