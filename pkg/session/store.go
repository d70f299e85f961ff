package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists sessions. Implementations must hand out copies, never
// shared mutable state, and must map missing sessions to ErrSessionNotFound
// so the Manager can treat lookup misses uniformly across backends.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get returns the session with the given ID or ErrSessionNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Update replaces the stored session or returns ErrSessionNotFound.
	Update(ctx context.Context, s *Session) error

	// Delete removes the session. Deleting an absent session is not an
	// error.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser returns every stored session for the user, in no
	// particular order.
	ListByUser(ctx context.Context, userID string) ([]*Session, error)

	// ListAll returns every stored session.
	ListAll(ctx context.Context) ([]*Session, error)

	// DeleteExpired removes sessions whose expiry precedes the given
	// instant and returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
