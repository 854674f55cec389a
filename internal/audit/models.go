// Package audit captures key auth actions and fans them out to sinks: the
// in-memory trail, an optional Kafka topic, and the bot's Discord log
// channel. Events never carry bearer tokens or other secrets.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies events for routing and retention.
type EventCategory string

const (
	// CategorySecurity covers denials and anything a monitoring pipeline
	// should alert on.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine actions: successful logins, logouts.
	CategoryOperations EventCategory = "operations"
)

// Actions emitted by the login chain.
const (
	ActionLoginSucceeded   = "login_succeeded"
	ActionLoginDenied      = "login_denied"
	ActionSessionDestroyed = "session_destroyed"
)

// Event is emitted from the auth service to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    string        `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
	Action    string        `json:"action"`
	// Reason holds the denial code for login_denied events.
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Store persists the event trail.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}

// Sink receives a copy of every event for side-channel delivery.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
