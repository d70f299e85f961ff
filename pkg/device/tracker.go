package device

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/trustkit/pkg/fingerprint"
)

// Tracker maintains device histories and trust scores from fingerprint
// sightings and observed events.
type Tracker struct {
	store  Store
	logger *slog.Logger
	clock  func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger sets the structured logger for device events.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithTrackerClock overrides the time source, mainly for tests.
func WithTrackerClock(clock func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:  store,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordSighting creates the history on first sighting of the fingerprint's
// device and updates counters and locations on every subsequent one.
// It returns the updated history.
func (t *Tracker) RecordSighting(ctx context.Context, fp fingerprint.Fingerprint) (*History, error) {
	now := t.clock()
	location := fp.Location.String()

	history, err := t.store.GetHistory(ctx, fp.DeviceID)
	switch {
	case errors.Is(err, ErrHistoryNotFound):
		history = NewHistory(fp.DeviceID, location, now)
	case err != nil:
		return nil, err
	default:
		history.RecordSighting(location, now)
	}

	if err := t.store.SaveHistory(ctx, history); err != nil {
		return nil, err
	}

	t.logger.DebugContext(ctx, "device sighting recorded",
		slog.String("device_id", fp.DeviceID),
		slog.Int("session_count", history.SessionCount),
		slog.String("location", location),
	)
	return history, nil
}

// RecordLogin updates the history's login counters for the device.
func (t *Tracker) RecordLogin(ctx context.Context, deviceID string, success bool) error {
	history, err := t.store.GetHistory(ctx, deviceID)
	if errors.Is(err, ErrHistoryNotFound) {
		history = &History{DeviceID: deviceID, FirstSeen: t.clock(), LastSeen: t.clock()}
	} else if err != nil {
		return err
	}

	if success {
		history.SuccessfulLogins++
	} else {
		history.FailedLogins++
	}
	return t.store.SaveHistory(ctx, history)
}

// RecordSuspiciousActivity bumps the device's suspicious-activity counter and
// applies the matching trust penalty.
func (t *Tracker) RecordSuspiciousActivity(ctx context.Context, deviceID string) error {
	history, err := t.store.GetHistory(ctx, deviceID)
	if errors.Is(err, ErrHistoryNotFound) {
		history = &History{DeviceID: deviceID, FirstSeen: t.clock(), LastSeen: t.clock()}
	} else if err != nil {
		return err
	}

	history.SuspiciousActivities++
	if err := t.store.SaveHistory(ctx, history); err != nil {
		return err
	}

	_, err = t.AdjustTrust(ctx, deviceID, EventSuspiciousActivity)
	return err
}

// AdjustTrust applies the event's fixed delta to the device's trust score,
// creating a neutral score on first sighting. Returns the updated score.
func (t *Tracker) AdjustTrust(ctx context.Context, deviceID string, event Event) (int, error) {
	now := t.clock()

	trust, err := t.store.GetTrust(ctx, deviceID)
	switch {
	case errors.Is(err, ErrTrustNotFound):
		trust = NewTrustScore(deviceID, now)
	case err != nil:
		return 0, err
	default:
		trust.assertValid()
	}

	trust.Apply(event, now)
	if err := t.store.SaveTrust(ctx, trust); err != nil {
		return 0, err
	}

	t.logger.DebugContext(ctx, "device trust adjusted",
		slog.String("device_id", deviceID),
		slog.String("event", string(event)),
		slog.Int("score", trust.Score),
	)
	return trust.Score, nil
}

// Trust returns the device's current trust score, or the neutral initial
// score for unseen devices.
func (t *Tracker) Trust(ctx context.Context, deviceID string) (int, error) {
	trust, err := t.store.GetTrust(ctx, deviceID)
	if errors.Is(err, ErrTrustNotFound) {
		return InitialTrustScore, nil
	}
	if err != nil {
		return 0, err
	}
	trust.assertValid()
	return trust.Score, nil
}

// History returns the device history, or ErrHistoryNotFound for unseen devices.
func (t *Tracker) History(ctx context.Context, deviceID string) (*History, error) {
	return t.store.GetHistory(ctx, deviceID)
}
