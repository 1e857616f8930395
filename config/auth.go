package config

import "time"

// AuthConfig groups session and remember-token configuration.
type AuthConfig struct {
	// SessionTTL is the server-side session lifetime.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// RememberTTL is the remember-token lifetime; it outlives the session so
	// a browser can re-derive its identity after the session expires.
	RememberTTL time.Duration `env:"REMEMBER_TTL" envDefault:"168h"`

	// RememberSecret signs remember-tokens. Required outside dev mode.
	RememberSecret string `env:"REMEMBER_SECRET"`

	// Issuer is the remember-token issuer claim.
	Issuer string `env:"ISSUER" envDefault:"chapa-dashboard"`

	// CookieDomain for auth cookies; empty uses the request domain.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`

	// SecureCookies marks auth cookies Secure; enable behind TLS.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.RememberTTL < a.SessionTTL {
		a.RememberTTL = a.SessionTTL
	}
}
