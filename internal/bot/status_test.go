package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/discord", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", "https://discord.com/oauth2/authorize")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// Redirects are not followed so the login entry point reports its own 302.
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	lines, allOK := probeEndpoints(context.Background(), client, server.URL, probeTargets)
	assert.False(t, allOK)
	assert.Equal(t, []string{
		"Health - 200 - OK",
		"Auth Discord - 302 - OK",
		"API User - 401 - FAIL",
	}, lines)
}

func TestProbeEndpointsAllHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	lines, allOK := probeEndpoints(context.Background(), http.DefaultClient, server.URL, probeTargets)
	assert.True(t, allOK)
	assert.Len(t, lines, len(probeTargets))
}

func TestProbeUnreachableServer(t *testing.T) {
	lines, allOK := probeEndpoints(context.Background(), http.DefaultClient,
		"http://127.0.0.1:1", probeTargets)
	assert.False(t, allOK)
	for _, line := range lines {
		assert.Contains(t, line, "ERROR")
	}
}
