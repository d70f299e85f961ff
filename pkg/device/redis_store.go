package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisHistoryKeyPrefix = "trustkit:device:history:"
	redisTrustKeyPrefix   = "trustkit:device:trust:"
)

// RedisStore implements Store backed by Redis with JSON payloads.
// Records have no TTL: device reputation must outlive any session.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed device store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// GetHistory retrieves the history for a device id.
func (s *RedisStore) GetHistory(ctx context.Context, deviceID string) (*History, error) {
	data, err := s.client.Get(ctx, redisHistoryKeyPrefix+deviceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("device: get history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("device: decode history: %w", err)
	}
	return &h, nil
}

// SaveHistory creates or replaces the history record.
func (s *RedisStore) SaveHistory(ctx context.Context, history *History) error {
	if history == nil || history.DeviceID == "" {
		return ErrInvalidRecord
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("device: encode history: %w", err)
	}
	if err := s.client.Set(ctx, redisHistoryKeyPrefix+history.DeviceID, data, 0).Err(); err != nil {
		return fmt.Errorf("device: save history: %w", err)
	}
	return nil
}

// GetTrust retrieves the trust score for a device id.
func (s *RedisStore) GetTrust(ctx context.Context, deviceID string) (*TrustScore, error) {
	data, err := s.client.Get(ctx, redisTrustKeyPrefix+deviceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTrustNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("device: get trust: %w", err)
	}

	var t TrustScore
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("device: decode trust: %w", err)
	}
	return &t, nil
}

// SaveTrust creates or replaces the trust score record.
func (s *RedisStore) SaveTrust(ctx context.Context, trust *TrustScore) error {
	if trust == nil || trust.DeviceID == "" {
		return ErrInvalidRecord
	}

	data, err := json.Marshal(trust)
	if err != nil {
		return fmt.Errorf("device: encode trust: %w", err)
	}
	if err := s.client.Set(ctx, redisTrustKeyPrefix+trust.DeviceID, data, 0).Err(); err != nil {
		return fmt.Errorf("device: save trust: %w", err)
	}
	return nil
}
