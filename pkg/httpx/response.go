package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire shape for every error the API returns.
type ErrorResponse struct {
	// Error is a stable machine-readable code, e.g. "already_in_family".
	Error string `json:"error"`

	// Message is a human-readable description safe to surface in the UI.
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. Responses are
// marked no-store since most payloads carry account or membership state.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standard error body.
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	WriteJSON(w, code, ErrorResponse{Error: errCode, Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
