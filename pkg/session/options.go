package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/trustkit/pkg/device"
	"github.com/dmitrymomot/trustkit/pkg/risk"
)

// Option configures a Manager.
type Option func(*Manager)

// WithStore sets the session store. Defaults to an in-memory store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithLogger sets the structured logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRiskAssessor enables device risk assessment at session creation.
// Without it, device binding records no risk flags.
func WithRiskAssessor(assessor *risk.Assessor) Option {
	return func(m *Manager) {
		m.assessor = assessor
	}
}

// WithDeviceTracker wires device history and trust bookkeeping into session
// creation.
func WithDeviceTracker(tracker *device.Tracker) Option {
	return func(m *Manager) {
		m.devices = tracker
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithContextPredicate registers or replaces a named context predicate used
// by capability checks. Context keys without a registered predicate always
// fail closed.
func WithContextPredicate(name string, p Predicate) Option {
	return func(m *Manager) {
		if name != "" && p != nil {
			m.predicates[name] = p
		}
	}
}
