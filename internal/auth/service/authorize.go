package service

import (
	"context"
	"errors"
	"slices"

	"guildgate/internal/auth/models"
	"guildgate/internal/discord"
	dErrors "guildgate/pkg/domain-errors"
	"guildgate/pkg/platform/sentinel"
)

// authorize evaluates the guild-role predicate for an authenticated identity.
// The sequence mirrors the decision order: guild visible to the bot, user is
// a member, member holds the required role. A single exact-id membership test
// decides the outcome; there is no role hierarchy and no any-of semantics.
// Returns the member record and the flattened role-name list for projection.
func (s *Service) authorize(ctx context.Context, userID string) (*discord.Member, []string, error) {
	guildRoles, err := s.provider.GuildRoles(ctx, s.cfg.GuildID)
	if err != nil {
		return nil, nil, dErrors.Wrap(dErrors.CodeGuildUnavailable, "guild not visible to bot", err)
	}

	member, err := s.provider.GuildMember(ctx, s.cfg.GuildID, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, dErrors.New(dErrors.CodeNotAMember, "user is not a member of the guild")
	}
	if err != nil {
		return nil, nil, dErrors.Wrap(dErrors.CodeGuildUnavailable, "member lookup failed", err)
	}

	if !slices.Contains(member.Roles, s.cfg.RequiredRoleID) {
		return nil, nil, dErrors.New(dErrors.CodeRoleMissing, "user does not hold the required role")
	}

	names := make(map[string]string, len(guildRoles))
	for _, role := range guildRoles {
		names[role.ID] = role.Name
	}
	roleNames := make([]string, 0, len(member.Roles))
	for _, roleID := range member.Roles {
		if name, ok := names[roleID]; ok {
			roleNames = append(roleNames, name)
		}
	}
	return member, roleNames, nil
}

// project denormalizes the provider identity and membership into the stored
// user record. Pure data shaping; the authorization decision already
// happened.
func project(user *discord.User, member *discord.Member, roleNames []string, connections []discord.Connection) models.User {
	connectionTypes := make([]string, 0, len(connections))
	for _, connection := range connections {
		connectionTypes = append(connectionTypes, connection.Type)
	}
	return models.User{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Email:         user.Email,
		Avatar:        user.AvatarURL(),
		Nickname:      member.Nick,
		JoinedAt:      member.JoinedAt,
		Roles:         roleNames,
		Nitro:         user.Nitro(),
		Connections:   connectionTypes,
		Locale:        user.Locale,
		MFAEnabled:    user.MFAEnabled,
		Verified:      user.Verified,
	}
}
