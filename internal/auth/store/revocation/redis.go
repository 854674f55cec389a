package revocation

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:jti:"

// RedisList shares the denylist across instances. Redis expiry bounds entry
// lifetime to the token lifetime.
type RedisList struct {
	client *goredis.Client
}

func NewRedisList(client *goredis.Client) *RedisList {
	return &RedisList{client: client}
}

func (l *RedisList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	// The key's existence is the marker; the value is irrelevant.
	return l.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (l *RedisList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := l.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
