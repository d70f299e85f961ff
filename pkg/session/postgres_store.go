package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/trustkit/pkg/capability"
	"github.com/dmitrymomot/trustkit/pkg/pg"
)

// Schema creates the sessions table. Run it once at startup, before the
// store handles traffic.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	internal_user_id TEXT NOT NULL DEFAULT '',
	device_id TEXT NOT NULL DEFAULT '',
	auth_method TEXT NOT NULL DEFAULT '',
	capabilities JSONB NOT NULL DEFAULT '[]',
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	activity JSONB NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);
`

// PostgresStore persists sessions in PostgreSQL via pgx. Capabilities and
// the activity log are stored as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a session store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the session schema.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	caps, activity, err := marshalJSONColumns(s)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, internal_user_id, device_id, auth_method, capabilities, status, created_at, expires_at, activity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.UserID, s.InternalUserID, s.DeviceID, s.AuthMethod,
		caps, string(s.Status), s.CreatedAt, s.ExpiresAt, activity,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return errors.Join(ErrInvalidSession, err)
		}
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, user_id, internal_user_id, device_id, auth_method, capabilities, status, created_at, expires_at, activity
		FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	caps, activity, err := marshalJSONColumns(s)
	if err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE sessions
		SET capabilities = $2, status = $3, expires_at = $4, activity = $5
		WHERE id = $1`,
		s.ID, caps, string(s.Status), s.ExpiresAt, activity,
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (p *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, internal_user_id, device_id, auth_method, capabilities, status, created_at, expires_at, activity
		FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (p *PostgresStore) ListAll(ctx context.Context) ([]*Session, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, internal_user_id, device_id, auth_method, capabilities, status, created_at, expires_at, activity
		FROM sessions`)
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	return int(tag.RowsAffected()), nil
}

func marshalJSONColumns(s *Session) (caps, activity []byte, err error) {
	caps, err = json.Marshal(s.Capabilities)
	if err != nil {
		return nil, nil, errors.Join(ErrInvalidSession, err)
	}
	activity, err = json.Marshal(s.Activity)
	if err != nil {
		return nil, nil, errors.Join(ErrInvalidSession, err)
	}
	return caps, activity, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var (
		s        Session
		status   string
		caps     []byte
		activity []byte
	)
	err := row.Scan(&s.ID, &s.UserID, &s.InternalUserID, &s.DeviceID, &s.AuthMethod,
		&caps, &status, &s.CreatedAt, &s.ExpiresAt, &activity)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}

	var set capability.Set
	if err := json.Unmarshal(caps, &set); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	s.Capabilities = set
	s.Status = Status(status)
	if err := json.Unmarshal(activity, &s.Activity); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	return &s, nil
}

func scanSessions(rows pgx.Rows) ([]*Session, error) {
	var out []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return out, nil
}
