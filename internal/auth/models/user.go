package models

import "time"

// User is the denormalized projection of a Discord identity plus the guild
// membership fields consumers need. It is built once per login by the
// authorizer and stored verbatim in the session record; /api/user returns it
// as-is. Field names mirror what the dashboard frontend expects.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator,omitempty"`
	Email         string    `json:"email,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	Nickname      string    `json:"nickname,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
	Roles         []string  `json:"roles"`
	Nitro         bool      `json:"nitro"`
	Connections   []string  `json:"connections"`
	Locale        string    `json:"locale,omitempty"`
	MFAEnabled    bool      `json:"mfa_enabled"`
	Verified      bool      `json:"verified"`
}
