package config

// PaymentsConfig tunes the payments domain.
type PaymentsConfig struct {
	// SendLimit is the configured maximum for a single send; zero disables
	// the upper bound.
	SendLimit float64 `env:"SEND_LIMIT" envDefault:"10000"`

	// CacheAttempts bounds the read cache's retry loop per fetch.
	CacheAttempts int `env:"CACHE_ATTEMPTS" envDefault:"3"`
}

// Sanitize applies guardrails to payments configuration values.
func (p *PaymentsConfig) Sanitize() {
	if p.SendLimit < 0 {
		p.SendLimit = 0
	}
	if p.CacheAttempts < 1 {
		p.CacheAttempts = 1
	}
}
