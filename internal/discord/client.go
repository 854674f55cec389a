// Package discord is the REST client for the identity provider: the OAuth2
// code exchange plus the profile and guild lookups the authorizer needs.
// The base URL is configurable so tests can point it at an httptest server.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"guildgate/pkg/platform/sentinel"
)

// DefaultBaseURL is the production Discord API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// DefaultScopes matches the original dashboard's authorize request.
var DefaultScopes = []string{"identify", "guilds.join", "email", "connections"}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BotToken     string
	BaseURL      string
	Scopes       []string
	HTTPClient   *http.Client
}

type Client struct {
	http     *http.Client
	oauth    *oauth2.Config
	baseURL  string
	botToken string
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		botToken: cfg.BotToken,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/oauth2/authorize",
				TokenURL:  baseURL + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// AuthCodeURL builds the provider authorize URL the login entry point
// redirects to.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange redeems a single-use authorization code for a bearer token. The
// code is consumed by this call whether or not it succeeds.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// CurrentUser fetches the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/users/@me", "Bearer "+accessToken, &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &user, nil
}

// Connections lists the user's linked external accounts.
func (c *Client) Connections(ctx context.Context, accessToken string) ([]Connection, error) {
	var connections []Connection
	if err := c.getJSON(ctx, "/users/@me/connections", "Bearer "+accessToken, &connections); err != nil {
		return nil, fmt.Errorf("fetch connections: %w", err)
	}
	return connections, nil
}

// GuildMember fetches the member record for a user within a guild using the
// bot token. Returns sentinel.ErrNotFound when the user is not a member.
func (c *Client) GuildMember(ctx context.Context, guildID, userID string) (*Member, error) {
	var member Member
	err := c.getJSON(ctx, "/guilds/"+guildID+"/members/"+userID, "Bot "+c.botToken, &member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GuildRoles lists the guild's roles. This doubles as the guild visibility
// check: if the bot cannot see the guild, the lookup fails.
func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	var roles []Role
	if err := c.getJSON(ctx, "/guilds/"+guildID+"/roles", "Bot "+c.botToken, &roles); err != nil {
		return nil, fmt.Errorf("%w: fetch guild roles: %w", sentinel.ErrUnavailable, err)
	}
	return roles, nil
}

func (c *Client) getJSON(ctx context.Context, path, authorization string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authorization)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
