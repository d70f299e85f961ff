// Package pg provides PostgreSQL connection helpers for the pgx/v5-backed
// stores in this module.
//
// Connect opens a *pgxpool.Pool from Config with retry logic, Healthcheck
// returns a probe function for liveness endpoints, and a few error helpers
// classify common pgx/pgconn failures.
//
// Example:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer pool.Close()
package pg
