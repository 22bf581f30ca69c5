package postgres

// Package postgres provides the PostgreSQL-backed session store, for
// deployments without Redis. Records live in a single sessions table;
// expired rows are treated as absent and reaped opportunistically.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/ports"
)

// SessionStore persists session records in PostgreSQL.
type SessionStore struct {
	db *sql.DB
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Postgres session store and ensures its schema.
func NewSessionStore(ctx context.Context, db *sql.DB) (*SessionStore, error) {
	if db == nil {
		return nil, apperrors.Validation("database handle is required")
	}
	s := &SessionStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) ensureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	token TEXT NOT NULL,
	identity JSONB,
	state TEXT NOT NULL,
	epoch BIGINT NOT NULL DEFAULT 0,
	expires_at TIMESTAMPTZ NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure sessions schema: %w", err)
	}
	return nil
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session ID cannot be empty")
	}
	if time.Until(sess.ExpiresAt) <= 0 {
		return apperrors.Validation("session is expired")
	}

	var identity []byte
	if sess.Identity != nil {
		data, err := json.Marshal(sess.Identity)
		if err != nil {
			return fmt.Errorf("marshal identity: %w", err)
		}
		identity = data
	}

	const q = `
INSERT INTO sessions (id, token, identity, state, epoch, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET token = EXCLUDED.token,
    identity = EXCLUDED.identity,
    state = EXCLUDED.state,
    epoch = EXCLUDED.epoch,
    expires_at = EXCLUDED.expires_at`
	_, err := s.db.ExecContext(ctx, q, sess.ID, sess.Token, identity, string(sess.State), int64(sess.Epoch), sess.ExpiresAt)
	return apperrors.MapDBError(err)
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	const q = `
SELECT id, token, identity, state, epoch, expires_at
FROM sessions
WHERE id = $1`
	var (
		sess     domainauth.Session
		identity []byte
		state    string
		epoch    int64
	)
	err := s.db.QueryRowContext(ctx, q, id).
		Scan(&sess.ID, &sess.Token, &identity, &state, &epoch, &sess.ExpiresAt)
	if err != nil {
		return domainauth.Session{}, apperrors.MapDBError(err)
	}

	sess.State = domainauth.LoadingState(state)
	sess.Epoch = uint64(epoch)
	if len(identity) > 0 {
		var ident domainauth.Identity
		if unmarshalErr := json.Unmarshal(identity, &ident); unmarshalErr != nil {
			return domainauth.Session{}, fmt.Errorf("unmarshal identity: %w", unmarshalErr)
		}
		sess.Identity = &ident
	}

	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return apperrors.MapDBError(err)
}
