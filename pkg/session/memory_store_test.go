package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustkit/pkg/capability"
	"github.com/dmitrymomot/trustkit/pkg/session"
)

func newStoredSession(userID string, expiresAt time.Time) *session.Session {
	return &session.Session{
		ID:           uuid.New(),
		UserID:       userID,
		AuthMethod:   "password",
		Capabilities: capability.MustSet("documents:read"),
		Status:       session.StatusActive,
		CreatedAt:    expiresAt.Add(-30 * time.Minute),
		ExpiresAt:    expiresAt,
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	s := newStoredSession("user-1", time.Now().Add(time.Hour))

	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)

	got.Status = session.StatusRevoked
	require.NoError(t, store.Update(ctx, got))

	got2, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusRevoked, got2.Status)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Deleting twice is not an error.
	require.NoError(t, store.Delete(ctx, s.ID))
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	err = store.Update(context.Background(), newStoredSession("user-1", time.Now()))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	s := newStoredSession("user-1", time.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	got.Status = session.StatusRevoked
	got.Activity = append(got.Activity, session.Activity{Action: "tamper"})

	fresh, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusActive, fresh.Status)
	assert.Empty(t, fresh.Activity)
}

func TestMemoryStoreListByUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	for range 3 {
		require.NoError(t, store.Create(ctx, newStoredSession("user-1", time.Now().Add(time.Hour))))
	}
	require.NoError(t, store.Create(ctx, newStoredSession("user-2", time.Now().Add(time.Hour))))

	list, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := store.ListByUser(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	now := time.Now()

	expired := newStoredSession("user-1", now.Add(-time.Minute))
	live := newStoredSession("user-1", now.Add(time.Hour))
	require.NoError(t, store.Create(ctx, expired))
	require.NoError(t, store.Create(ctx, live))

	removed, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = store.Get(ctx, live.ID)
	require.NoError(t, err)

	list, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
