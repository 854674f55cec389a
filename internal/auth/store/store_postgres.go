package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"guildgate/internal/auth/models"
	"guildgate/pkg/platform/sentinel"
)

// PostgresStore persists sessions in a single table keyed by the user's
// stable id, so a repeat login is an INSERT ... ON CONFLICT upsert: last
// login wins, no history. Survives restarts.
type PostgresStore struct {
	db    *sql.DB
	clock Clock
}

// PostgresStoreOption configures a PostgresStore.
type PostgresStoreOption func(*PostgresStore)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock Clock) PostgresStoreOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewPostgresStore(db *sql.DB, opts ...PostgresStoreOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EnsureSchema creates the sessions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			user_id    TEXT PRIMARY KEY,
			handle     TEXT NOT NULL UNIQUE,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure sessions schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, session models.Session) (string, error) {
	handle := uuid.NewString()
	session.Handle = handle

	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	query := `
		INSERT INTO sessions (user_id, handle, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			handle     = EXCLUDED.handle,
			payload    = EXCLUDED.payload,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`
	_, err = s.db.ExecContext(ctx, query, session.User.ID, handle, payload, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return handle, nil
}

func (s *PostgresStore) Resolve(ctx context.Context, handle string) (models.Session, error) {
	var (
		payload   []byte
		expiresAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM sessions WHERE handle = $1`, handle,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("fetch session: %w", err)
	}

	if s.clock().After(expiresAt) {
		// Expired rows are reaped lazily; a failure here only delays cleanup.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE handle = $1`, handle)
		return models.Session{}, sentinel.ErrExpired
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	session.Handle = handle
	return session, nil
}

func (s *PostgresStore) Destroy(ctx context.Context, handle string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE handle = $1`, handle); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
