// Package bot runs the companion Discord bot: status commands mirroring the
// dashboard's health surface, and a log-channel sink for audit events. It is
// a thin consumer of the auth core's read-only operations and never makes
// authorization decisions of its own.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen  = 0x2ecc71
	colorRed    = 0xe74c3c
	colorBlue   = 0x3498db
	colorPurple = 0x7289da
)

// Config carries the bot's wiring: which guild it watches, where auth events
// are mirrored, and which base URL the /api command probes.
type Config struct {
	GuildID      string
	LogChannelID string
	ProbeBaseURL string
}

type Bot struct {
	session *discordgo.Session
	logger  *slog.Logger
	cfg     Config
	probe   *http.Client
}

func New(token string, cfg Config, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session: session,
		logger:  logger,
		cfg:     cfg,
		// Probes must see the gate's own status codes, not follow its
		// redirects out to the provider.
		probe: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	session.AddHandler(b.handleInteraction)
	return b, nil
}

// Run opens the gateway connection, registers the status commands, and holds
// the connection until the context is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	defer b.session.Close()

	if err := b.registerCommands(); err != nil {
		// Commands are best-effort: the log-channel sink still works.
		b.logger.Warn("command registration failed", "error", err)
	}

	b.logger.Info("bot connected", "guild_id", b.cfg.GuildID)
	<-ctx.Done()
	return nil
}

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{Name: "api", Description: "Check the API status"},
		{Name: "checkbot", Description: "Check the bot status"},
		{Name: "help", Description: "Get the list of available commands"},
		{Name: "params", Description: "Show details of collected user parameters"},
	}
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.cfg.GuildID, commands)
	return err
}

// handleInteraction dispatches slash commands. A panic inside any command
// becomes a generic failure reply; detail goes to the operational log only.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name

	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("panic in command handler", "command", name, "panic", rec)
			b.respond(s, i, &discordgo.MessageEmbed{
				Title:       "Error",
				Description: "The command failed. Please try again later.",
				Color:       colorRed,
			})
		}
	}()

	switch name {
	case "api":
		b.respond(s, i, b.apiStatusEmbed(context.Background()))
	case "checkbot":
		b.respond(s, i, b.botStatusEmbed())
	case "help":
		b.respond(s, i, helpEmbed())
	case "params":
		b.respond(s, i, paramsEmbed())
	}
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		b.logger.Warn("interaction respond failed", "error", err)
	}
}

// botStatusEmbed reports whether the configured guild is visible on this
// connection, which is exactly the authorizer's availability precondition.
func (b *Bot) botStatusEmbed() *discordgo.MessageEmbed {
	status := "Bot status: OK"
	color := colorGreen
	if _, err := b.session.State.Guild(b.cfg.GuildID); err != nil {
		if _, err := b.session.Guild(b.cfg.GuildID); err != nil {
			status = "Bot status: FAIL - Not in guild"
			color = colorRed
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "Bot Status",
		Description: status,
		Color:       color,
	}
}

func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Help Menu",
		Description: "Available commands: /api, /checkbot, /help, /params",
		Color:       colorBlue,
	}
}

func paramsEmbed() *discordgo.MessageEmbed {
	params := []struct{ name, description string }{
		{"id", "User ID"},
		{"username", "Discord username"},
		{"discriminator", "Discord discriminator"},
		{"email", "User email"},
		{"avatar", "User avatar URL"},
		{"joined_at", "Guild join date"},
		{"nickname", "Guild nickname"},
		{"roles", "Guild roles"},
		{"nitro", "Has Nitro subscription"},
		{"connections", "Connected accounts"},
		{"locale", "User locale"},
		{"mfa_enabled", "MFA enabled"},
		{"verified", "Email verified"},
	}
	description := ""
	for _, p := range params {
		description += fmt.Sprintf("**%s**: %s\n", p.name, p.description)
	}
	return &discordgo.MessageEmbed{
		Title:       "Collected User Parameters",
		Description: description,
		Color:       colorPurple,
	}
}
