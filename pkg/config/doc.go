// Package config loads configuration structs from environment variables.
//
// Fields are mapped with `env` struct tags and optional `envDefault` values.
// A .env file in the working directory is loaded once per process before the
// first parse; a missing file is not an error.
//
// Example:
//
//	type SessionConfig struct {
//	    MaxConcurrent int           `env:"SESSION_MAX_CONCURRENT" envDefault:"5"`
//	    Duration      time.Duration `env:"SESSION_DEFAULT_DURATION" envDefault:"30m"`
//	}
//
//	var cfg SessionConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
package config
