package device

import (
	"fmt"
	"time"
)

// Trust score bounds and the neutral starting point for unseen devices.
const (
	MinTrustScore     = 0
	MaxTrustScore     = 100
	InitialTrustScore = 50
)

// Event is an observed device event that adjusts the trust score.
type Event string

const (
	EventSessionCreated     Event = "session_created"
	EventSessionCompleted   Event = "session_completed"
	EventSuccessfulLogin    Event = "successful_login"
	EventFailedLogin        Event = "failed_login"
	EventSuspiciousActivity Event = "suspicious_activity"
)

// trustDeltas maps each event to its fixed score adjustment.
var trustDeltas = map[Event]int{
	EventSessionCreated:     +2,
	EventSessionCompleted:   +1,
	EventSuccessfulLogin:    +3,
	EventFailedLogin:        -5,
	EventSuspiciousActivity: -10,
}

// TrustScore is the bounded [0,100] reliability estimate for a device.
type TrustScore struct {
	DeviceID  string    `json:"device_id"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTrustScore creates a neutral score for a newly seen device.
func NewTrustScore(deviceID string, now time.Time) *TrustScore {
	return &TrustScore{DeviceID: deviceID, Score: InitialTrustScore, UpdatedAt: now}
}

// Apply adjusts the score by the event's fixed delta, clamped to [0,100].
// Unknown events leave the score untouched.
func (t *TrustScore) Apply(event Event, now time.Time) {
	delta, ok := trustDeltas[event]
	if !ok {
		return
	}

	t.Score = clampScore(t.Score + delta)
	t.UpdatedAt = now
}

// assertValid panics on a score outside [0,100]. A stored score out of range
// is a programming bug, not a policy outcome, and must abort loudly.
func (t *TrustScore) assertValid() {
	if t.Score < MinTrustScore || t.Score > MaxTrustScore {
		panic(fmt.Sprintf("device: trust score %d for %q outside [%d,%d]", t.Score, t.DeviceID, MinTrustScore, MaxTrustScore))
	}
}

func clampScore(score int) int {
	if score < MinTrustScore {
		return MinTrustScore
	}
	if score > MaxTrustScore {
		return MaxTrustScore
	}
	return score
}
