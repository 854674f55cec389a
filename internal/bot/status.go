package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// probeTarget is one endpoint the /api command checks.
type probeTarget struct {
	path string
	name string
}

var probeTargets = []probeTarget{
	{"/healthz", "Health"},
	{"/auth/discord", "Auth Discord"},
	{"/api/user", "API User"},
}

// apiStatusEmbed probes the service's own endpoints and reports one line per
// endpoint. Probes are read-only and never touch live sessions.
func (b *Bot) apiStatusEmbed(ctx context.Context) *discordgo.MessageEmbed {
	lines, allOK := probeEndpoints(ctx, b.probe, b.cfg.ProbeBaseURL, probeTargets)
	color := colorGreen
	if !allOK {
		color = colorRed
	}
	return &discordgo.MessageEmbed{
		Title:       "API Status",
		Description: strings.Join(lines, "\n"),
		Color:       color,
	}
}

// probeEndpoints GETs each target and formats a status line. A redirect from
// the login entry point counts as healthy; an unauthenticated 401 from the
// protected API does not, matching how the dashboard's uptime page reads it.
func probeEndpoints(ctx context.Context, client *http.Client, baseURL string, targets []probeTarget) ([]string, bool) {
	lines := make([]string, 0, len(targets))
	allOK := true
	for _, target := range targets {
		line, ok := probeOne(ctx, client, baseURL+target.path, target.name)
		if !ok {
			allOK = false
		}
		lines = append(lines, line)
	}
	return lines, allOK
}

func probeOne(ctx context.Context, client *http.Client, url, name string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Sprintf("%s - ERROR - %v", name, err), false
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Sprintf("%s - ERROR - %v", name, err), false
	}
	resp.Body.Close()

	if resp.StatusCode < http.StatusBadRequest {
		return fmt.Sprintf("%s - %d - OK", name, resp.StatusCode), true
	}
	return fmt.Sprintf("%s - %d - FAIL", name, resp.StatusCode), false
}
