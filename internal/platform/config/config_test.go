package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_CLIENT_ID", "client-1")
	t.Setenv("DISCORD_CLIENT_SECRET", "secret")
	t.Setenv("REDIRECT_URI", "https://gate.example.com/auth/discord/callback")
	t.Setenv("GUILD_ID", "guild-1")
	t.Setenv("ROLE_ID", "role-member")
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	t.Setenv("SESSION_SECRET", "session-secret")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "/dashboard", cfg.DashboardURL)
	assert.Equal(t, "/auth-failed.html", cfg.FailureURL)
	assert.Equal(t, "guildgate.auth-events", cfg.AuditTopic)
	assert.Equal(t, "http://localhost:8080", cfg.ProbeBaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnvMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_CLIENT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	// All missing variables are reported at once.
	assert.Contains(t, err.Error(), "DISCORD_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestFromEnvRedisBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_BACKEND", "redis")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvPostgresBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_BACKEND", "postgres")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/guildgate?sslmode=disable")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.SessionBackend)
}

func TestFromEnvUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_BACKEND", "etcd")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown SESSION_BACKEND")
}

func TestFromEnvInvalidTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL", "one-day")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestFromEnvKafkaBrokers(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
}
