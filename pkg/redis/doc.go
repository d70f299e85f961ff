// Package redis provides connection helpers for the Redis-backed stores in
// this module.
//
// Connect wraps the go-redis client with retry logic driven by Config, whose
// fields are populated from environment variables via github.com/caarlos0/env.
// Healthcheck returns a probe function suitable for liveness endpoints.
//
// Example:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer client.Close()
package redis
