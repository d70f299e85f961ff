package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/trustkit/pkg/capability"
)

// Status describes where a session sits in its lifecycle. Transitions are
// one-way: an active session may expire or be revoked, and terminal states
// never return to active.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// MaxActivityEntries bounds the per-session activity log. When the log is
// full the oldest entry is evicted to make room for the newest.
const MaxActivityEntries = 100

// Activity action names recorded on the session's audit trail.
const (
	ActivitySessionCreated      = "session_created"
	ActivitySessionValidated    = "session_validated"
	ActivitySessionExpired      = "session_expired"
	ActivitySessionRevoked      = "session_revoked"
	ActivitySessionEvicted      = "session_evicted"
	ActivityCapabilityDenied    = "capability_denied"
	ActivityCapabilitiesUpdated = "capabilities_updated"
	ActivityDeviceFlagged       = "device_flagged"
)

// Activity is one entry in a session's bounded audit trail. Failed entries
// feed the suspicious-activity metric.
type Activity struct {
	Action  string    `json:"action"`
	At      time.Time `json:"at"`
	Success bool      `json:"success"`
	Detail  string    `json:"detail,omitempty"`
}

// Session is a capability-scoped session bound to a user and, optionally, to
// the device fingerprint observed at creation time.
type Session struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"user_id"`
	InternalUserID string         `json:"internal_user_id,omitempty"`
	DeviceID       string         `json:"device_id,omitempty"`
	AuthMethod     string         `json:"auth_method"`
	Capabilities   capability.Set `json:"capabilities"`
	Status         Status         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
	Activity       []Activity     `json:"activity,omitempty"`
}

// IsExpired reports whether the session's expiry has passed at the given
// instant, regardless of status.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsActive reports whether the session is usable: status active and not yet
// past expiry.
func (s *Session) IsActive(now time.Time) bool {
	return s.Status == StatusActive && !s.IsExpired(now)
}

// transition moves the session to a terminal state. Leaving a terminal state
// indicates corrupted lifecycle bookkeeping, so it aborts loudly rather than
// continuing with an untrustworthy session.
func (s *Session) transition(to Status) {
	if s.Status != StatusActive {
		panic(fmt.Sprintf("session: illegal transition %s -> %s for session %s", s.Status, to, s.ID))
	}
	if to != StatusExpired && to != StatusRevoked {
		panic(fmt.Sprintf("session: illegal transition target %s for session %s", to, s.ID))
	}
	s.Status = to
}

// recordActivity appends an entry to the audit trail, evicting the oldest
// entry once the log reaches MaxActivityEntries.
func (s *Session) recordActivity(action string, success bool, detail string, at time.Time) {
	if len(s.Activity) >= MaxActivityEntries {
		s.Activity = s.Activity[len(s.Activity)-MaxActivityEntries+1:]
	}
	s.Activity = append(s.Activity, Activity{
		Action:  action,
		At:      at,
		Success: success,
		Detail:  detail,
	})
}

// FailedActivities counts audit entries recorded as unsuccessful.
func (s *Session) FailedActivities() int {
	n := 0
	for _, a := range s.Activity {
		if !a.Success {
			n++
		}
	}
	return n
}

// clone returns a deep copy so stores can hand out sessions without sharing
// mutable state with callers.
func (s *Session) clone() *Session {
	cp := *s
	if s.Activity != nil {
		cp.Activity = make([]Activity, len(s.Activity))
		copy(cp.Activity, s.Activity)
	}
	return &cp
}
