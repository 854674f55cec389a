package discord

import (
	"fmt"
	"time"
)

// Raw payload shapes from the Discord REST API. Only the fields the login
// flow consumes are mapped.

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Email         string `json:"email"`
	Avatar        string `json:"avatar"`
	Locale        string `json:"locale"`
	MFAEnabled    bool   `json:"mfa_enabled"`
	Verified      bool   `json:"verified"`
	// PremiumType is null for users without Nitro; any non-null value counts.
	PremiumType *int `json:"premium_type"`
}

// AvatarURL renders the CDN URL for the user's avatar, or "" when unset.
func (u User) AvatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
}

// Nitro reports whether the user has any premium subscription.
func (u User) Nitro() bool {
	return u.PremiumType != nil && *u.PremiumType != 0
}

type Connection struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type Member struct {
	Nick     string    `json:"nick"`
	JoinedAt time.Time `json:"joined_at"`
	Roles    []string  `json:"roles"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
