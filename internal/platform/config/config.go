package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Session backends the store factory understands.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendJWT      = "jwt"
)

// Config captures everything the server and the companion bot need from the
// environment. FromEnv builds it so main stays lean.
type Config struct {
	Addr string

	// Discord OAuth2 application credentials.
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Authorization gate: the guild the user must belong to and the role the
	// user must hold. Fixed configuration, never request-supplied.
	GuildID        string
	RequiredRoleID string

	// Bot process credentials and the channel auth events are mirrored to.
	BotToken     string
	LogChannelID string

	// Session store selection and policy.
	SessionBackend string
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool

	// Backend resources (required only for the matching backend).
	Redis       RedisConfig
	DatabaseURL string

	// Optional audit event pipeline.
	KafkaBrokers []string
	AuditTopic   string

	// Post-login destinations.
	DashboardURL string
	FailureURL   string

	// Base URL the bot probes for the /api status command. Defaults to the
	// local server address.
	ProbeBaseURL string
}

// RedisConfig holds connection settings for the go-redis client wrapper.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds the configuration from environment variables. A missing
// required variable is a startup-fatal condition: the process must refuse to
// run partially configured rather than serve sessions it cannot trust.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           getenv("GUILDGATE_ADDR", ":8080"),
		ClientID:       os.Getenv("DISCORD_CLIENT_ID"),
		ClientSecret:   os.Getenv("DISCORD_CLIENT_SECRET"),
		RedirectURI:    os.Getenv("REDIRECT_URI"),
		GuildID:        os.Getenv("GUILD_ID"),
		RequiredRoleID: os.Getenv("ROLE_ID"),
		BotToken:       os.Getenv("DISCORD_BOT_TOKEN"),
		LogChannelID:   os.Getenv("LOGGING_CHANNEL_ID"),
		SessionBackend: getenv("SESSION_BACKEND", BackendMemory),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		CookieSecure:   getenv("COOKIE_SECURE", "true") == "true",
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AuditTopic:     getenv("AUDIT_TOPIC", "guildgate.auth-events"),
		DashboardURL:   getenv("DASHBOARD_URL", "/dashboard"),
		FailureURL:     getenv("FAILURE_URL", "/auth-failed.html"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	cfg.ProbeBaseURL = getenv("PROBE_BASE_URL", "http://localhost"+cfg.Addr)

	var missing []string
	for _, v := range []struct{ name, value string }{
		{"DISCORD_CLIENT_ID", cfg.ClientID},
		{"DISCORD_CLIENT_SECRET", cfg.ClientSecret},
		{"REDIRECT_URI", cfg.RedirectURI},
		{"GUILD_ID", cfg.GuildID},
		{"ROLE_ID", cfg.RequiredRoleID},
		{"DISCORD_BOT_TOKEN", cfg.BotToken},
		{"SESSION_SECRET", cfg.SessionSecret},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch cfg.SessionBackend {
	case BackendMemory, BackendJWT:
	case BackendRedis:
		if cfg.Redis.URL == "" {
			return Config{}, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("SESSION_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
