package device

import "context"

// Store defines persistence for device histories and trust scores.
// The engine behaves identically whether the backing store is in-memory or
// durable; implementations must return copies, never shared mutable state.
type Store interface {
	// GetHistory retrieves the history for a device id.
	// Returns ErrHistoryNotFound for unseen devices.
	GetHistory(ctx context.Context, deviceID string) (*History, error)

	// SaveHistory creates or replaces the history record.
	SaveHistory(ctx context.Context, history *History) error

	// GetTrust retrieves the trust score for a device id.
	// Returns ErrTrustNotFound for unseen devices.
	GetTrust(ctx context.Context, deviceID string) (*TrustScore, error)

	// SaveTrust creates or replaces the trust score record.
	SaveTrust(ctx context.Context, trust *TrustScore) error
}
