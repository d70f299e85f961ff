package device_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustkit/pkg/device"
)

func TestMemoryStoreHistory(t *testing.T) {
	t.Parallel()

	store := device.NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetHistory(ctx, "dev-1")
	assert.ErrorIs(t, err, device.ErrHistoryNotFound)

	h := device.NewHistory("dev-1", "Kyiv, Ukraine", time.Now())
	require.NoError(t, store.SaveHistory(ctx, h))

	got, err := store.GetHistory(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, h.Locations, got.Locations)

	// The store must hand out copies, not shared state.
	got.Locations[0] = "mutated"
	again, err := store.GetHistory(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "Kyiv, Ukraine", again.Locations[0])
}

func TestMemoryStoreTrust(t *testing.T) {
	t.Parallel()

	store := device.NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetTrust(ctx, "dev-1")
	assert.ErrorIs(t, err, device.ErrTrustNotFound)

	trust := device.NewTrustScore("dev-1", time.Now())
	require.NoError(t, store.SaveTrust(ctx, trust))

	got, err := store.GetTrust(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, device.InitialTrustScore, got.Score)
}

func TestMemoryStoreRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	store := device.NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveHistory(ctx, nil), device.ErrInvalidRecord)
	assert.ErrorIs(t, store.SaveHistory(ctx, &device.History{}), device.ErrInvalidRecord)
	assert.ErrorIs(t, store.SaveTrust(ctx, &device.TrustScore{}), device.ErrInvalidRecord)
}
