package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Everything the core can fail with is
// one of these; anything else is treated as unexpected and never shown to the
// client.
var (
	ErrValidation       = errors.New("invalid request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden: insufficient permissions")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("time slot conflicts with existing appointment")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

// StatusFor maps a domain error to its HTTP status code. Unknown errors map
// to 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAlreadyCancelled):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Expected reports whether err is a client-facing outcome rather than an
// infrastructure failure.
func Expected(err error) bool {
	return StatusFor(err) != http.StatusInternalServerError
}
