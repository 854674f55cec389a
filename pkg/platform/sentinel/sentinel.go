package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Session stores and provider
// clients return these (optionally wrapped) so services can translate them
// into domain errors at the boundary.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store / member not in guild
// - ErrExpired: session passed its TTL
// - ErrRevoked: token was explicitly destroyed before expiry
// - ErrUnavailable: backing resource temporarily unreachable
//
// For validation and authorization failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrRevoked     = errors.New("revoked")
	ErrUnavailable = errors.New("unavailable")
)
