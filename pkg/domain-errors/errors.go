// Package domainerrors defines the coded errors the login chain and the HTTP
// layer agree on. Services return these; transport translates them into JSON
// envelopes or redirects without leaking internals.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Codes are stable strings so they can be
// logged, counted, and asserted on in tests.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"

	// Login-chain failures. The callback boundary collapses all of these into
	// a redirect to the failure page; the distinction feeds logs and metrics.
	CodeMissingCode      Code = "missing_code"
	CodeTokenExchange    Code = "token_exchange_failed"
	CodeProfileFetch     Code = "profile_fetch_failed"
	CodeGuildUnavailable Code = "guild_unavailable"
	CodeNotAMember       Code = "not_a_member"
	CodeRoleMissing      Code = "role_missing"
	CodeSessionNotFound  Code = "session_not_found"
)

// Error carries a code plus a human-readable message. The message is safe to
// return to clients for 4xx codes; internal errors only expose the code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause for logging while keeping the outward code/message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for errors this package does not know about.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the status the JSON API should answer with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeMissingCode:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeSessionNotFound:
		return http.StatusUnauthorized
	case CodeForbidden, CodeNotAMember, CodeRoleMissing:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTokenExchange, CodeProfileFetch, CodeGuildUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
