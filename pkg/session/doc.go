// Package session manages capability-scoped user sessions with device
// binding, sliding expiry, and per-user concurrency limits.
//
// The Manager is the main entry point. It creates sessions bound to a device
// fingerprint, validates them against capability checks, and enforces a
// per-user cap on concurrently active sessions by evicting the session
// closest to expiry. Sessions move through a one-way lifecycle: active
// sessions become expired or revoked, and neither terminal state ever
// returns to active.
//
// Validation is a policy decision, not an error: ValidateWithCapabilities
// returns a ValidationResult carrying the denial reason instead of an error,
// so callers can distinguish "the store broke" from "this session is not
// allowed to do that".
//
// Storage is pluggable through the Store interface. The package ships an
// in-memory store for tests and single-node use, a Redis store for shared
// state, and a PostgreSQL store for durable persistence. Every store call
// made by the Manager is bounded by a configurable timeout; a store that
// does not answer in time is treated as a denial, never as an approval.
//
// Example:
//
//	manager := session.New(
//	    session.WithStore(store),
//	    session.WithRiskAssessor(assessor),
//	    session.WithDeviceTracker(tracker),
//	)
//	defer manager.Close()
//
//	sess, err := manager.CreateSession(ctx, session.CreateParams{
//	    UserID:       "user-1",
//	    AuthMethod:   "password",
//	    Fingerprint:  fp,
//	    Capabilities: []string{"documents:read", "documents:write"},
//	})
//	if err != nil {
//	    // handle error
//	}
//
//	result := manager.ValidateWithCapabilities(ctx, sess.ID, &session.CapabilityCheck{
//	    Action: "documents:read",
//	})
//	if !result.Valid {
//	    // deny: result.Reason says why
//	}
package session
