package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"guildgate/internal/platform/metrics"
	"guildgate/internal/platform/middleware"
	"guildgate/internal/transport/http/shared"
	dErrors "guildgate/pkg/domain-errors"
)

// UserHandler serves the session-backed API surface.
type UserHandler struct {
	auth    AuthService
	logger  *slog.Logger
	metrics *metrics.Metrics
	cfg     AuthConfig
}

func NewUserHandler(auth AuthService, logger *slog.Logger, m *metrics.Metrics, cfg AuthConfig) *UserHandler {
	return &UserHandler{auth: auth, logger: logger, metrics: m, cfg: cfg}
}

// handleUser returns the current session's projected identity. The gate
// middleware already resolved the credential; an absent session here means
// the route was wired without it.
func (h *UserHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "session missing from context despite gate middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "No valid session"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, session.User)
}

// logoutRequest is the optional body map-backed variants send.
type logoutRequest struct {
	Token string `json:"token"`
}

// handleLogout destroys whatever credential the caller presents, via cookie,
// header, query, or body. It always reports success: logging out of a dead
// session is not an error.
func (h *UserHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	handle := middleware.CredentialFromRequest(r)
	if handle == "" && r.Body != nil {
		var req logoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			handle = req.Token
		}
	}

	_ = h.auth.Logout(r.Context(), handle)

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
