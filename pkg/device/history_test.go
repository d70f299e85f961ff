package device_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/trustkit/pkg/device"
)

func TestHistoryFirstSighting(t *testing.T) {
	t.Parallel()

	now := time.Now()
	h := device.NewHistory("dev-1", "Kyiv, Ukraine", now)

	assert.Equal(t, "dev-1", h.DeviceID)
	assert.Equal(t, now, h.FirstSeen)
	assert.Equal(t, now, h.LastSeen)
	assert.Equal(t, 1, h.SessionCount)
	assert.Equal(t, []string{"Kyiv, Ukraine"}, h.Locations)
}

func TestHistoryRepeatSighting(t *testing.T) {
	t.Parallel()

	start := time.Now()
	h := device.NewHistory("dev-1", "Kyiv, Ukraine", start)

	later := start.Add(time.Hour)
	h.RecordSighting("Kyiv, Ukraine", later)

	assert.Equal(t, 2, h.SessionCount)
	assert.Equal(t, later, h.LastSeen)
	assert.Equal(t, start, h.FirstSeen)
	// Duplicate location is not appended.
	assert.Len(t, h.Locations, 1)

	h.RecordSighting("Lviv, Ukraine", later.Add(time.Hour))
	assert.Equal(t, []string{"Kyiv, Ukraine", "Lviv, Ukraine"}, h.Locations)
}

func TestHistoryLocationBound(t *testing.T) {
	t.Parallel()

	now := time.Now()
	h := device.NewHistory("dev-1", "loc-0", now)
	for i := 1; i <= device.MaxLocations+5; i++ {
		h.RecordSighting(fmt.Sprintf("loc-%d", i), now)
	}

	assert.Len(t, h.Locations, device.MaxLocations)
	// Oldest entries evicted first.
	assert.Equal(t, "loc-6", h.Locations[0])
	assert.Equal(t, fmt.Sprintf("loc-%d", device.MaxLocations+5), h.Locations[len(h.Locations)-1])
}

func TestHistoryFailureRatio(t *testing.T) {
	t.Parallel()

	h := &device.History{DeviceID: "dev-1"}
	assert.Zero(t, h.FailureRatio())

	h.SuccessfulLogins = 6
	h.FailedLogins = 4
	assert.InDelta(t, 0.4, h.FailureRatio(), 1e-9)
}
