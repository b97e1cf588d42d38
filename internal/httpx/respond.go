// Package httpx holds the JSON response envelope and the error taxonomy
// shared by every handler.
package httpx

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a {success:true, data} envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// Error writes a {success:false, error} envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// RespondError maps a domain error onto the envelope. Expected outcomes keep
// their message; anything else is logged server-side and surfaced as a
// generic 500 with no internals.
func RespondError(log *zap.Logger, w http.ResponseWriter, err error) {
	if Expected(err) {
		Error(w, StatusFor(err), err.Error())
		return
	}
	if log != nil {
		log.Error("unhandled error", zap.Error(err))
	}
	Error(w, http.StatusInternalServerError, "internal server error")
}

// Decode reads a JSON request body into target.
func Decode(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
