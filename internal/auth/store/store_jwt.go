package store

import (
	"context"
	"time"

	"guildgate/internal/auth/models"
	"guildgate/internal/auth/store/revocation"
	"guildgate/internal/jwttoken"
	"guildgate/pkg/platform/sentinel"
)

// JWTStore is the stateless backend: the handle is the signed token itself
// and Resolve verifies it without a lookup. Revocation before expiry is
// impossible for a pure token, so Destroy records the JTI in a denylist for
// the remainder of the token's lifetime.
type JWTStore struct {
	tokens  *jwttoken.Service
	revoked revocation.List
	ttl     time.Duration
	clock   Clock
}

// JWTStoreOption configures a JWTStore.
type JWTStoreOption func(*JWTStore)

// WithJWTClock sets the clock function for testability.
func WithJWTClock(clock Clock) JWTStoreOption {
	return func(s *JWTStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewJWTStore(tokens *jwttoken.Service, revoked revocation.List, ttl time.Duration, opts ...JWTStoreOption) *JWTStore {
	s := &JWTStore{
		tokens:  tokens,
		revoked: revoked,
		ttl:     ttl,
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *JWTStore) Create(_ context.Context, session models.Session) (string, error) {
	signed, _, err := s.tokens.Generate(session, s.ttl)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (s *JWTStore) Resolve(ctx context.Context, handle string) (models.Session, error) {
	claims, err := s.tokens.Validate(handle)
	if err != nil {
		return models.Session{}, sentinel.ErrNotFound
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return models.Session{}, err
	}
	if revoked {
		return models.Session{}, sentinel.ErrRevoked
	}

	session := models.Session{
		Handle: handle,
		User:   claims.User,
		Device: claims.Device,
	}
	if claims.IssuedAt != nil {
		session.CreatedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *JWTStore) Destroy(ctx context.Context, handle string) error {
	claims, err := s.tokens.Validate(handle)
	if err != nil {
		// Invalid or already-expired tokens need no denylist entry.
		return nil
	}
	remaining := s.ttl
	if claims.ExpiresAt != nil {
		remaining = claims.ExpiresAt.Sub(s.clock())
	}
	if remaining <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, remaining)
}
