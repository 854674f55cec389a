package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guildgate/internal/platform/middleware"
	"guildgate/internal/transport/http/shared"
)

// NewRouter wires all public endpoints. The /api/user route sits behind the
// authorization gate; the logout route does not, because logging out must
// always succeed whether or not a live session exists.
func NewRouter(auth *AuthHandler, user *UserHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/auth/discord", auth.handleLogin)
	r.Get("/auth/discord/callback", auth.handleCallback)
	r.Get("/logout", auth.handleBrowserLogout)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireSession(user.auth, logger))
		protected.Get("/api/user", user.handleUser)
	})
	r.Post("/api/user/logout", user.handleLogout)

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
