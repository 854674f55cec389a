// Command server runs the guild-gated dashboard service: the HTTP login flow
// and the companion Discord bot, sharing one auth core. Business logic lives
// in internal packages; main only wires dependencies.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"guildgate/internal/audit"
	"guildgate/internal/auth/service"
	"guildgate/internal/bot"
	"guildgate/internal/discord"
	"guildgate/internal/platform/config"
	"guildgate/internal/platform/httpserver"
	"guildgate/internal/platform/logger"
	"guildgate/internal/platform/metrics"
	platformredis "guildgate/internal/platform/redis"
	httptransport "guildgate/internal/transport/http"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration invalid, refusing to start", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	provider := discord.New(discord.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
		BotToken:     cfg.BotToken,
	})

	var redisClient *platformredis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	sessions, cleanup, err := buildSessionStore(cfg, redisClient)
	if err != nil {
		log.Error("session store init failed", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	gateBot, err := bot.New(cfg.BotToken, bot.Config{
		GuildID:      cfg.GuildID,
		LogChannelID: cfg.LogChannelID,
		ProbeBaseURL: cfg.ProbeBaseURL,
	}, log)
	if err != nil {
		log.Error("bot init failed", "error", err)
		os.Exit(1)
	}

	auditOpts := []audit.PublisherOption{
		audit.WithAsyncBuffer(256),
		audit.WithSink(gateBot.Notifier()),
	}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka sink init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditOpts = append(auditOpts, audit.WithSink(kafkaSink))
	}
	publisher := audit.NewPublisher(audit.NewMemoryStore(), log, auditOpts...)
	defer publisher.Close()

	svc := service.New(provider, sessions, publisher, m, log, service.Config{
		GuildID:        cfg.GuildID,
		RequiredRoleID: cfg.RequiredRoleID,
		SessionTTL:     cfg.SessionTTL,
	})

	transportCfg := httptransport.AuthConfig{
		DashboardURL: cfg.DashboardURL,
		FailureURL:   cfg.FailureURL,
		CookieTTL:    cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}
	router := httptransport.NewRouter(
		httptransport.NewAuthHandler(svc, log, transportCfg),
		httptransport.NewUserHandler(svc, log, m, transportCfg),
		log,
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting guildgate", "addr", cfg.Addr, "session_backend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return gateBot.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
