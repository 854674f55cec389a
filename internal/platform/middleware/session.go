package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"guildgate/internal/auth/models"
)

// SessionCookieName is the cookie the callback handler sets on success.
const SessionCookieName = "guildgate_session"

// SessionResolver resolves a presented credential into the stored session.
type SessionResolver interface {
	Resolve(ctx context.Context, handle string) (models.Session, error)
}

type contextKeySession struct{}

// ContextKeySession is exported for tests that inject sessions directly.
var ContextKeySession = contextKeySession{}

// GetSession retrieves the authenticated session from the context.
func GetSession(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(models.Session)
	return session, ok
}

// CredentialFromRequest extracts whatever the client presents: the session
// cookie, a bearer Authorization header, or a token query parameter, in that
// order. Returns "" when nothing is presented.
func CredentialFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return r.URL.Query().Get("token")
}

// RequireSession is the authorization gate. It admits requests whose
// credential resolves to a live session and attaches that session to the
// request context. Unresolvable credentials get a 401 JSON envelope for
// API-style callers and a redirect to the login entry point for browsers.
func RequireSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			handle := CredentialFromRequest(r)
			if handle == "" {
				logger.WarnContext(ctx, "unauthenticated request - no credential",
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				reject(w, r)
				return
			}

			session, err := resolver.Resolve(ctx, handle)
			if err != nil {
				logger.WarnContext(ctx, "unauthenticated request - credential rejected",
					"path", r.URL.Path,
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				reject(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ContextKeySession, session)))
		})
	}
}

// reject branches on the requested representation: JSON callers receive a
// structured 401 body, browser navigation is sent back to the login flow.
func reject(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"No valid session"}`))
		return
	}
	http.Redirect(w, r, "/auth/discord", http.StatusFound)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "json") ||
		strings.HasPrefix(r.URL.Path, "/api/")
}
