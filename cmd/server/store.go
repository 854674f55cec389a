package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"guildgate/internal/auth/store"
	"guildgate/internal/auth/store/revocation"
	"guildgate/internal/jwttoken"
	"guildgate/internal/platform/config"
	platformredis "guildgate/internal/platform/redis"
)

// buildSessionStore constructs the configured session backend. The returned
// cleanup releases any backend resources and is safe to call once.
func buildSessionStore(cfg config.Config, redisClient *platformredis.Client) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.SessionBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), noop, nil

	case config.BackendRedis:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("redis backend selected but redis is not configured")
		}
		return store.NewRedisStore(redisClient.Client, cfg.SessionTTL), noop, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("ping postgres: %w", err)
		}
		pgStore := store.NewPostgresStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return pgStore, func() { db.Close() }, nil

	case config.BackendJWT:
		tokens := jwttoken.NewService(cfg.SessionSecret, "guildgate")
		// Shared revocation when Redis is around; in-process otherwise.
		var revoked revocation.List = revocation.NewMemoryList()
		if redisClient != nil {
			revoked = revocation.NewRedisList(redisClient.Client)
		}
		return store.NewJWTStore(tokens, revoked, cfg.SessionTTL), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
