// Package revocation tracks destroyed signed-token sessions until their
// natural expiry. Verification of a signed token is pure, so logout needs
// this auxiliary denylist to take effect before the token expires.
package revocation

import (
	"context"
	"time"
)

// List is the denylist contract shared by the in-process and Redis
// implementations. Entries are keyed by token JTI and only need to live as
// long as the token itself.
type List interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Clock is injected for TTL testability; defaults to time.Now.
type Clock func() time.Time
