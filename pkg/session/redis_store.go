package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionKeyPrefix = "trustkit:session:"
	redisUserKeyPrefix    = "trustkit:session:user:"
	redisIndexKey         = "trustkit:session:index"

	// redisTTLGrace keeps expired sessions readable for a while so that
	// validation can report "expired" instead of "not found" before the
	// background sweep removes them.
	redisTTLGrace = time.Hour
)

// RedisStore persists sessions in Redis as JSON documents with secondary
// indexes per user and a global index for listing.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a session store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisSessionKeyPrefix+s.ID.String(), data, r.ttl(s))
	pipe.SAdd(ctx, redisUserKeyPrefix+s.UserID, s.ID.String())
	pipe.SAdd(ctx, redisIndexKey, s.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := r.client.Get(ctx, redisSessionKeyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	key := redisSessionKeyPrefix + s.ID.String()
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	if exists == 0 {
		return ErrSessionNotFound
	}

	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl(s)).Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// The document may have hit its TTL with stale index
			// entries left behind. Prune the global index; user
			// sets are pruned lazily by ListByUser.
			_ = r.client.SRem(ctx, redisIndexKey, id.String()).Err()
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, redisSessionKeyPrefix+id.String())
	pipe.SRem(ctx, redisUserKeyPrefix+s.UserID, id.String())
	pipe.SRem(ctx, redisIndexKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (r *RedisStore) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := r.client.SMembers(ctx, redisUserKeyPrefix+userID).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}

	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.getByString(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				_ = r.client.SRem(ctx, redisUserKeyPrefix+userID, id).Err()
				continue
			}
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RedisStore) ListAll(ctx context.Context) ([]*Session, error) {
	ids, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}

	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.getByString(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				_ = r.client.SRem(ctx, redisIndexKey, id).Err()
				continue
			}
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *RedisStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	sessions, err := r.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, s := range sessions {
		if before.After(s.ExpiresAt) {
			if err := r.Delete(ctx, s.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

func (r *RedisStore) getByString(ctx context.Context, id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return r.Get(ctx, parsed)
}

// ttl returns the document TTL: time until expiry plus a grace window so the
// store outlives the session long enough to report its terminal state.
func (r *RedisStore) ttl(s *Session) time.Duration {
	ttl := time.Until(s.ExpiresAt) + redisTTLGrace
	if ttl < redisTTLGrace {
		ttl = redisTTLGrace
	}
	return ttl
}
