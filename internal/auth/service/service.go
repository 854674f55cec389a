// Package service implements the login chain: authorization-code exchange,
// profile fetch, guild-role authorization, and session creation. The chain is
// strictly sequential per attempt and touches no shared state until the final
// session-store write, so concurrent logins need no coordination. Nothing in
// the chain retries: a failed step is terminal for that attempt.
package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"guildgate/internal/audit"
	"guildgate/internal/auth/models"
	"guildgate/internal/auth/store"
	"guildgate/internal/discord"
	"guildgate/internal/platform/metrics"
	dErrors "guildgate/pkg/domain-errors"
)

// Provider is the identity provider surface the service consumes. Implemented
// by the discord REST client; faked in tests.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	CurrentUser(ctx context.Context, accessToken string) (*discord.User, error)
	Connections(ctx context.Context, accessToken string) ([]discord.Connection, error)
	GuildRoles(ctx context.Context, guildID string) ([]discord.Role, error)
	GuildMember(ctx context.Context, guildID, userID string) (*discord.Member, error)
}

// Config fixes the authorization gate. Guild and role identifiers come from
// deployment configuration, never from the request, so a client cannot pick
// its own gate.
type Config struct {
	GuildID        string
	RequiredRoleID string
	SessionTTL     time.Duration
}

type Service struct {
	provider Provider
	sessions store.Store
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	cfg      Config
	clock    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(
	provider Provider,
	sessions store.Store,
	auditPub *audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
	opts ...Option,
) *Service {
	s := &Service{
		provider: provider,
		sessions: sessions,
		audit:    auditPub,
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AuthCodeURL builds the provider authorize URL for the login entry point.
func (s *Service) AuthCodeURL() string {
	return s.provider.AuthCodeURL("")
}

// Login runs the full chain for one authorization code and returns the
// created session with its handle set. Every failure carries a domain error
// code; the callback boundary turns all of them into a failure-page redirect.
func (s *Service) Login(ctx context.Context, code, device string) (models.Session, error) {
	start := s.clock()
	session, user, err := s.runLogin(ctx, code, device)
	if err != nil {
		reason := dErrors.CodeOf(err)
		s.metrics.IncDenial(string(reason))
		event := audit.Event{
			Category: audit.CategorySecurity,
			Action:   audit.ActionLoginDenied,
			Reason:   string(reason),
		}
		if user != nil {
			event.UserID = user.ID
			event.Username = user.Username
		}
		s.emit(ctx, event)
		return models.Session{}, err
	}

	s.metrics.IncLogin()
	s.metrics.ObserveLoginDuration(s.clock().Sub(start))
	s.emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		Action:   audit.ActionLoginSucceeded,
		UserID:   session.User.ID,
		Username: session.User.Username,
	})
	return session, nil
}

func (s *Service) runLogin(ctx context.Context, code, device string) (models.Session, *discord.User, error) {
	if code == "" {
		return models.Session{}, nil, dErrors.New(dErrors.CodeMissingCode, "authorization code is required")
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return models.Session{}, nil, dErrors.Wrap(dErrors.CodeTokenExchange, "token exchange failed", err)
	}

	user, err := s.provider.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		return models.Session{}, nil, dErrors.Wrap(dErrors.CodeProfileFetch, "profile fetch failed", err)
	}

	member, roleNames, err := s.authorize(ctx, user.ID)
	if err != nil {
		return models.Session{}, user, err
	}

	// Linked connections are enrichment only; a failed fetch does not deny
	// an otherwise admitted login.
	connections, err := s.provider.Connections(ctx, token.AccessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "connections fetch failed", "user_id", user.ID, "error", err)
		connections = nil
	}

	now := s.clock()
	session := models.Session{
		User:      project(user, member, roleNames, connections),
		Device:    device,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	handle, err := s.sessions.Create(ctx, session)
	if err != nil {
		return models.Session{}, user, dErrors.Wrap(dErrors.CodeInternal, "create session", err)
	}
	session.Handle = handle
	return session, user, nil
}

// Resolve translates whatever the client presented into the stored session.
func (s *Service) Resolve(ctx context.Context, handle string) (models.Session, error) {
	session, err := s.sessions.Resolve(ctx, handle)
	if err != nil {
		return models.Session{}, dErrors.Wrap(dErrors.CodeSessionNotFound, "no valid session", err)
	}
	return session, nil
}

// Logout destroys the session behind a handle. Always succeeds: destroying a
// nonexistent or already-dead session is not an error.
func (s *Service) Logout(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}

	var userID, username string
	if session, err := s.sessions.Resolve(ctx, handle); err == nil {
		userID = session.User.ID
		username = session.User.Username
	}

	if err := s.sessions.Destroy(ctx, handle); err != nil {
		s.logger.WarnContext(ctx, "session destroy failed", "error", err)
		return nil
	}

	s.metrics.IncSessionDestroyed()
	s.emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		Action:   audit.ActionSessionDestroyed,
		UserID:   userID,
		Username: username,
	})
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
