package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"guildgate/internal/auth/models"
	"guildgate/pkg/platform/sentinel"
)

type resolverFunc func(ctx context.Context, handle string) (models.Session, error)

func (f resolverFunc) Resolve(ctx context.Context, handle string) (models.Session, error) {
	return f(ctx, handle)
}

func staticResolver(valid string, session models.Session) resolverFunc {
	return func(_ context.Context, handle string) (models.Session, error) {
		if handle == valid {
			return session, nil
		}
		return models.Session{}, sentinel.ErrNotFound
	}
}

func gatedEcho(resolver SessionResolver) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return RequireSession(resolver, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := GetSession(r.Context())
		_, _ = w.Write([]byte(session.User.ID))
	}))
}

func TestCredentialFromRequest(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
		assert.Equal(t, "from-cookie", CredentialFromRequest(r))
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-header", CredentialFromRequest(r))
	})

	t.Run("query parameter", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/user?token=from-query", nil)
		assert.Equal(t, "from-query", CredentialFromRequest(r))
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
		r.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-cookie", CredentialFromRequest(r))
	})

	t.Run("nothing presented", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		assert.Empty(t, CredentialFromRequest(r))
	})
}

func TestRequireSessionAdmits(t *testing.T) {
	session := models.Session{Handle: "h1", User: models.User{ID: "42"}}
	handler := gatedEcho(staticResolver("h1", session))

	r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "h1"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func TestRequireSessionRejectsAPI(t *testing.T) {
	handler := gatedEcho(staticResolver("h1", models.Session{}))

	for name, build := range map[string]func() *http.Request{
		"no credential": func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/user", nil)
		},
		"bad credential": func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
			return r
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, build())

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":"unauthorized","error_description":"No valid session"}`, w.Body.String())
		})
	}
}

func TestRequireSessionRedirectsBrowser(t *testing.T) {
	handler := gatedEcho(staticResolver("h1", models.Session{}))

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/discord", w.Header().Get("Location"))
}

func TestRequireSessionJSONAcceptOnNonAPIPath(t *testing.T) {
	handler := gatedEcho(staticResolver("h1", models.Session{}))

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetSessionAbsent(t *testing.T) {
	_, ok := GetSession(context.Background())
	assert.False(t, ok)
}
