package session

import "time"

// Config controls session lifecycle policy, populated from environment
// variables.
type Config struct {
	// MaxConcurrentSessions caps active sessions per user. Creating a
	// session beyond the cap evicts the active session closest to expiry.
	MaxConcurrentSessions int `env:"SESSION_MAX_CONCURRENT" envDefault:"5"`

	// DefaultDuration is the session lifetime used when CreateParams does
	// not request a custom duration. It is also the sliding-extension
	// window applied on successful validation.
	DefaultDuration time.Duration `env:"SESSION_DEFAULT_DURATION" envDefault:"30m"`

	// MaxLifetime bounds how far a session's expiry may slide past its
	// creation time. Zero disables the bound.
	MaxLifetime time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"24h"`

	// ExtendOnActivity enables sliding expiry on successful validation.
	ExtendOnActivity bool `env:"SESSION_EXTEND_ON_ACTIVITY" envDefault:"true"`

	// CleanupInterval is the period of the background sweep that purges
	// sessions past expiry. Zero disables StartCleanup.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// StoreTimeout bounds every store call made by the Manager. A store
	// that exceeds it is treated as a denial.
	StoreTimeout time.Duration `env:"SESSION_STORE_TIMEOUT" envDefault:"2s"`

	// RequireDeviceBinding runs risk assessment against the creation-time
	// fingerprint and flags low-trust devices on the session audit trail.
	RequireDeviceBinding bool `env:"SESSION_REQUIRE_DEVICE_BINDING" envDefault:"true"`
}

// DefaultConfig returns the production defaults used when no configuration
// is supplied.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentSessions: 5,
		DefaultDuration:       30 * time.Minute,
		MaxLifetime:           24 * time.Hour,
		ExtendOnActivity:      true,
		CleanupInterval:       5 * time.Minute,
		StoreTimeout:          2 * time.Second,
		RequireDeviceBinding:  true,
	}
}
