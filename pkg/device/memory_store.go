package device

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore implements Store with in-process maps.
type MemoryStore struct {
	mu        sync.RWMutex
	histories map[string]*History
	trust     map[string]*TrustScore
}

// NewMemoryStore creates an empty in-memory device store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		histories: make(map[string]*History),
		trust:     make(map[string]*TrustScore),
	}
}

// GetHistory retrieves a copy of the history for a device id.
func (m *MemoryStore) GetHistory(ctx context.Context, deviceID string) (*History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.histories[deviceID]
	if !ok {
		return nil, ErrHistoryNotFound
	}
	return copyHistory(h), nil
}

// SaveHistory stores a copy of the history record.
func (m *MemoryStore) SaveHistory(ctx context.Context, history *History) error {
	if history == nil || history.DeviceID == "" {
		return ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.histories[history.DeviceID] = copyHistory(history)
	return nil
}

// GetTrust retrieves a copy of the trust score for a device id.
func (m *MemoryStore) GetTrust(ctx context.Context, deviceID string) (*TrustScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trust[deviceID]
	if !ok {
		return nil, ErrTrustNotFound
	}
	cp := *t
	return &cp, nil
}

// SaveTrust stores a copy of the trust score record.
func (m *MemoryStore) SaveTrust(ctx context.Context, trust *TrustScore) error {
	if trust == nil || trust.DeviceID == "" {
		return ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *trust
	m.trust[trust.DeviceID] = &cp
	return nil
}

func copyHistory(h *History) *History {
	cp := *h
	cp.Locations = slices.Clone(h.Locations)
	return &cp
}
