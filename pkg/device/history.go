package device

import (
	"slices"
	"time"
)

// MaxLocations bounds the distinct locations kept per device.
// The oldest entry is evicted first once the bound is exceeded.
const MaxLocations = 20

// History is the per-device usage record. One record exists per device id.
type History struct {
	DeviceID             string    `json:"device_id"`
	FirstSeen            time.Time `json:"first_seen"`
	LastSeen             time.Time `json:"last_seen"`
	SessionCount         int       `json:"session_count"`
	SuccessfulLogins     int       `json:"successful_logins"`
	FailedLogins         int       `json:"failed_logins"`
	SuspiciousActivities int       `json:"suspicious_activities"`
	Locations            []string  `json:"locations,omitempty"`
}

// NewHistory creates the first-sighting record for a device.
func NewHistory(deviceID, location string, now time.Time) *History {
	h := &History{
		DeviceID:     deviceID,
		FirstSeen:    now,
		LastSeen:     now,
		SessionCount: 1,
	}
	h.RecordLocation(location)
	return h
}

// RecordSighting updates counters for a repeat sighting of the device.
func (h *History) RecordSighting(location string, now time.Time) {
	h.SessionCount++
	h.LastSeen = now
	h.RecordLocation(location)
}

// RecordLocation appends a location if it is not already present, evicting
// the oldest entry once MaxLocations is exceeded.
func (h *History) RecordLocation(location string) {
	if location == "" || slices.Contains(h.Locations, location) {
		return
	}

	h.Locations = append(h.Locations, location)
	if len(h.Locations) > MaxLocations {
		h.Locations = h.Locations[len(h.Locations)-MaxLocations:]
	}
}

// FailureRatio returns failed logins over total logins, or 0 with no logins.
func (h *History) FailureRatio() float64 {
	total := h.SuccessfulLogins + h.FailedLogins
	if total == 0 {
		return 0
	}
	return float64(h.FailedLogins) / float64(total)
}
