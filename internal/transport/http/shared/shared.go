// Package shared centralizes JSON response writing so every handler emits
// the same envelopes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "guildgate/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors expose only the code; 4xx codes include the message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	var e *dErrors.Error
	if status < http.StatusInternalServerError && errors.As(err, &e) && e.Message != "" {
		body["error_description"] = e.Message
	}
	WriteJSON(w, status, body)
}
