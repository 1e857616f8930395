// Package config loads application configuration from environment variables
// using caarlos0/env. Settings are split per domain: auth.go, database.go,
// http.go, payments.go.
package config

import (
	"os"
	"strings"
)

// StorageMode selects the account/ledger backing store.
type StorageMode string

const (
	// StorageModePostgres uses Postgres; the default.
	StorageModePostgres StorageMode = "postgres"
	// StorageModeMemory uses the seeded in-memory store; dev and demo only.
	StorageModeMemory StorageMode = "memory"
)

// AppConfig is the main application configuration struct composing
// domain-specific configuration from separate files.
type AppConfig struct {
	// IsDev controls development mode behavior. Set DEV=true.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Storage selects postgres or the seeded in-memory store.
	Storage StorageMode `env:"STORAGE_MODE" envDefault:"postgres"`

	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Postgres DBConfig       `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	HTTP     HTTPConfig
	Payments PaymentsConfig `envPrefix:"PAYMENTS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	if c.Storage != StorageModeMemory {
		c.Storage = StorageModePostgres
	}
	c.Auth.Sanitize()
	c.Payments.Sanitize()
	c.detectDevMode()
}

// detectDevMode also honors NODE_ENV=development as a fallback, common in
// tooling the frontend inherited.
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	if strings.EqualFold(os.Getenv("NODE_ENV"), "development") {
		c.IsDev = true
	}
}
