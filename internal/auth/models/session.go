package models

import "time"

// Session is the durable artifact of a successful login. A session only ever
// exists for an identity that passed the authorization decision; stores must
// never materialize one any other way.
type Session struct {
	// Handle is what the client presents on subsequent requests: a lookup key
	// for server-side backends, or the signed token itself for the JWT
	// backend. Never serialized into the record payload.
	Handle string `json:"-"`

	User      User      `json:"user"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session passed its TTL at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
