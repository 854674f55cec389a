package httptransport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guildgate/internal/auth/models"
	"guildgate/internal/platform/middleware"
	"guildgate/internal/transport/http/mocks"
	dErrors "guildgate/pkg/domain-errors"
)

func testAuthConfig() AuthConfig {
	return AuthConfig{
		DashboardURL: "https://dashboard.example.com/",
		FailureURL:   "https://dashboard.example.com/failure",
		CookieTTL:    24 * time.Hour,
		CookieSecure: true,
	}
}

func newTestRouter(t *testing.T) (*mocks.MockAuthService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testAuthConfig()
	router := NewRouter(
		NewAuthHandler(auth, logger, cfg),
		NewUserHandler(auth, logger, nil, cfg),
		logger,
	)
	return auth, router
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginRedirectsToProvider(t *testing.T) {
	auth, router := newTestRouter(t)
	auth.EXPECT().AuthCodeURL().Return("https://discord.com/oauth2/authorize?client_id=c1")

	r := httptest.NewRequest(http.MethodGet, "/auth/discord", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://discord.com/oauth2/authorize?client_id=c1", w.Header().Get("Location"))
}

func TestCallbackSuccess(t *testing.T) {
	auth, router := newTestRouter(t)
	session := models.Session{Handle: "handle-1", User: models.User{ID: "42", Username: "alice"}}
	auth.EXPECT().
		Login(gomock.Any(), "validCode123", gomock.Any()).
		Return(session, nil)

	r := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=validCode123", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://dashboard.example.com/?userId=42", w.Header().Get("Location"))

	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	assert.Equal(t, "handle-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestCallbackDashboardURLWithExistingQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testAuthConfig()
	cfg.DashboardURL = "https://dashboard.example.com/?view=home"
	router := NewRouter(
		NewAuthHandler(auth, logger, cfg),
		NewUserHandler(auth, logger, nil, cfg),
		logger,
	)

	auth.EXPECT().
		Login(gomock.Any(), "validCode123", gomock.Any()).
		Return(models.Session{Handle: "h", User: models.User{ID: "42"}}, nil)

	r := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=validCode123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, "https://dashboard.example.com/?view=home&userId=42", w.Header().Get("Location"))
}

func TestCallbackDenied(t *testing.T) {
	for name, loginErr := range map[string]error{
		"missing code":   dErrors.New(dErrors.CodeMissingCode, "authorization code is required"),
		"exchange fails": dErrors.New(dErrors.CodeTokenExchange, "token exchange failed"),
		"not a member":   dErrors.New(dErrors.CodeNotAMember, "user is not a member of the guild"),
		"role missing":   dErrors.New(dErrors.CodeRoleMissing, "user does not hold the required role"),
		"untyped error":  errors.New("boom"),
	} {
		t.Run(name, func(t *testing.T) {
			auth, router := newTestRouter(t)
			auth.EXPECT().
				Login(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(models.Session{}, loginErr)

			r := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=whatever", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "https://dashboard.example.com/failure", w.Header().Get("Location"))
			assert.Nil(t, sessionCookie(w.Result()))
		})
	}
}

func TestBrowserLogout(t *testing.T) {
	auth, router := newTestRouter(t)
	auth.EXPECT().Logout(gomock.Any(), "handle-1").Return(nil)

	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "handle-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestDeviceFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0")
	device := deviceFromRequest(r)
	assert.Contains(t, device, "Firefox")
	assert.Contains(t, device, "Linux")

	r.Header.Set("User-Agent", "")
	assert.Empty(t, deviceFromRequest(r))
}
