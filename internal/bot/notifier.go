package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"guildgate/internal/audit"
)

// Notifier mirrors audit events into the configured log channel as embeds.
// It implements audit.Sink; a missing channel id disables it silently.
type Notifier struct {
	bot *Bot
}

func (b *Bot) Notifier() *Notifier {
	return &Notifier{bot: b}
}

func (n *Notifier) Publish(_ context.Context, event audit.Event) error {
	if n.bot.cfg.LogChannelID == "" {
		return nil
	}

	description := event.Action
	if event.Username != "" {
		description = fmt.Sprintf("%s: %s (%s)", event.Action, event.Username, event.UserID)
	}
	if event.Reason != "" {
		description += fmt.Sprintf(" - %s", event.Reason)
	}

	color := colorBlue
	if event.Category == audit.CategorySecurity {
		color = colorRed
	}

	_, err := n.bot.session.ChannelMessageSendEmbed(n.bot.cfg.LogChannelID, &discordgo.MessageEmbed{
		Title:       "Log Message",
		Description: description,
		Color:       color,
		Timestamp:   event.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	})
	return err
}
