// Package store defines the session/credential store contract and its
// interchangeable backends: a volatile in-process map, Redis, PostgreSQL,
// and a stateless signed-token variant. Whatever the backend, a resolved
// session always originates from an admitted authorization decision, repeat
// logins upsert by the user's stable id (last write wins), and Destroy is
// idempotent.
package store

import (
	"context"
	"time"

	"guildgate/internal/auth/models"
	"guildgate/pkg/platform/sentinel"
)

// ErrNotFound keeps storage-level misses consistent across backends.
var ErrNotFound = sentinel.ErrNotFound

// Store persists the authorized identity across requests.
type Store interface {
	// Create persists the session and returns the handle the client hands
	// back on subsequent requests (a lookup key, or the signed token itself).
	Create(ctx context.Context, session models.Session) (string, error)
	// Resolve returns the stored session for a handle, sentinel.ErrNotFound
	// when there is none, or sentinel.ErrExpired/ErrRevoked for dead ones.
	Resolve(ctx context.Context, handle string) (models.Session, error)
	// Destroy removes the session. Destroying a nonexistent session is not
	// an error.
	Destroy(ctx context.Context, handle string) error
}

// Clock is injected into backends for TTL testability; defaults to time.Now.
type Clock func() time.Time
