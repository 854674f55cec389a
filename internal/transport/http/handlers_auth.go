package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mssola/useragent"

	"guildgate/internal/auth/models"
	"guildgate/internal/platform/middleware"
	dErrors "guildgate/pkg/domain-errors"
)

//go:generate mockgen -source=handlers_auth.go -destination=mocks/auth-mocks.go -package=mocks AuthService

// AuthService is the slice of the auth core the HTTP layer consumes.
type AuthService interface {
	AuthCodeURL() string
	Login(ctx context.Context, code, device string) (models.Session, error)
	Resolve(ctx context.Context, handle string) (models.Session, error)
	Logout(ctx context.Context, handle string) error
}

// AuthConfig carries the transport-level policy around the login flow.
type AuthConfig struct {
	DashboardURL string
	FailureURL   string
	CookieTTL    time.Duration
	CookieSecure bool
}

// AuthHandler owns the OAuth2 entry point and callback. It delegates the
// whole chain to the service and only decides redirects and cookies.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
	cfg    AuthConfig
}

func NewAuthHandler(auth AuthService, logger *slog.Logger, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger, cfg: cfg}
}

// handleLogin redirects the browser to the provider's authorize URL.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.auth.AuthCodeURL(), http.StatusFound)
}

// handleCallback redeems the authorization code and establishes the session.
// Every chain failure lands on the failure page; the reason code is for the
// log line and metrics only, never the response body.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.URL.Query().Get("code")

	session, err := h.auth.Login(ctx, code, deviceFromRequest(r))
	if err != nil {
		h.logger.WarnContext(ctx, "login denied",
			"reason", string(dErrors.CodeOf(err)),
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		http.Redirect(w, r, h.cfg.FailureURL, http.StatusFound)
		return
	}

	h.setSessionCookie(w, session.Handle)
	h.logger.InfoContext(ctx, "login succeeded",
		"user_id", session.User.ID,
		"username", session.User.Username,
		"request_id", middleware.GetRequestID(ctx),
	)
	http.Redirect(w, r, h.dashboardURL(session.User.ID), http.StatusFound)
}

// handleBrowserLogout serves the navigational logout link.
func (h *AuthHandler) handleBrowserLogout(w http.ResponseWriter, r *http.Request) {
	_ = h.auth.Logout(r.Context(), middleware.CredentialFromRequest(r))
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) dashboardURL(userID string) string {
	separator := "?"
	if strings.Contains(h.cfg.DashboardURL, "?") {
		separator = "&"
	}
	return h.cfg.DashboardURL + separator + "userId=" + url.QueryEscape(userID)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, handle string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    handle,
		Path:     "/",
		MaxAge:   int(h.cfg.CookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

// deviceFromRequest summarizes the User-Agent for the session record.
func deviceFromRequest(r *http.Request) string {
	ua := useragent.New(r.Header.Get("User-Agent"))
	name, version := ua.Browser()
	if name == "" {
		return ""
	}
	if os := ua.OS(); os != "" {
		return name + " " + version + " on " + os
	}
	return name + " " + version
}
