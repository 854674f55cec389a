package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"guildgate/internal/auth/models"
	"guildgate/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix   = "sess:handle:"
	userIndexKeyPrefix = "sess:user:"
)

// RedisStore is the server-side session backend for distributed deployments.
// Redis owns TTL enforcement; a per-user index key implements the upsert so a
// repeat login atomically replaces the previous session.
type RedisStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRedisStore(client *goredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, session models.Session) (string, error) {
	handle := uuid.NewString()
	session.Handle = handle

	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	// Drop the previous handle for this user before writing the new one so a
	// stale cookie cannot resolve after a repeat login.
	userKey := userIndexKeyPrefix + session.User.ID
	if old, err := s.client.Get(ctx, userKey).Result(); err == nil && old != "" {
		if err := s.client.Del(ctx, sessionKeyPrefix+old).Err(); err != nil {
			return "", fmt.Errorf("drop previous session: %w", err)
		}
	} else if err != nil && !errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("lookup previous session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+handle, payload, s.ttl)
	pipe.Set(ctx, userKey, handle, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return handle, nil
}

func (s *RedisStore) Resolve(ctx context.Context, handle string) (models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+handle).Bytes()
	if errors.Is(err, goredis.Nil) {
		return models.Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("fetch session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return models.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	session.Handle = handle
	return session, nil
}

func (s *RedisStore) Destroy(ctx context.Context, handle string) error {
	session, err := s.Resolve(ctx, handle)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+handle)
	pipe.Del(ctx, userIndexKeyPrefix+session.User.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
