package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActivityBound(t *testing.T) {
	t.Parallel()

	s := &Session{ID: uuid.New()}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < MaxActivityEntries+20; i++ {
		s.recordActivity(ActivitySessionValidated, true, "", at.Add(time.Duration(i)*time.Second))
	}

	require.Len(t, s.Activity, MaxActivityEntries)
	// Oldest entries are gone; the newest survives.
	assert.Equal(t, at.Add(119*time.Second), s.Activity[len(s.Activity)-1].At)
	assert.Equal(t, at.Add(20*time.Second), s.Activity[0].At)
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	t.Parallel()

	s := &Session{ID: uuid.New(), Status: StatusActive}
	s.transition(StatusRevoked)
	assert.Equal(t, StatusRevoked, s.Status)

	assert.Panics(t, func() { s.transition(StatusExpired) })
	assert.Panics(t, func() { s.transition(StatusActive) })
}

func TestTransitionRejectsActiveTarget(t *testing.T) {
	t.Parallel()

	s := &Session{ID: uuid.New(), Status: StatusActive}
	assert.Panics(t, func() { s.transition(StatusActive) })
}
