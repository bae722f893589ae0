// Package httperrors maps engine failures onto HTTP responses.
package httperrors

import (
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HTTPError is the JSON error body returned by the relay.
type HTTPError struct {
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Title
}

// NewHTTPError creates an HTTPError and wraps it for echo.
func NewHTTPError(code int, title string, detail string) error {
	return echo.NewHTTPError(code, &HTTPError{Code: code, Title: title, Detail: detail})
}

// FromEngineError translates the engine's error taxonomy into HTTP status
// codes. Anything unrecognized becomes a 500 without leaking internals.
func FromEngineError(err error) error {
	switch {
	case errors.Is(err, anoncred.ErrAlreadyInitialized):
		return NewHTTPError(http.StatusConflict, "already_initialized", "engine already initialized")
	case errors.Is(err, anoncred.ErrUnauthorized):
		return NewHTTPError(http.StatusForbidden, "unauthorized", "caller is not authorized")
	case errors.Is(err, anoncred.ErrDuplicateIssuer):
		return NewHTTPError(http.StatusConflict, "duplicate_issuer", "issuer already registered")
	case errors.Is(err, anoncred.ErrInvalidRingSize):
		return NewHTTPError(http.StatusBadRequest, "invalid_ring_size", "ring must have at least two members")
	case errors.Is(err, anoncred.ErrDuplicateMember):
		return NewHTTPError(http.StatusBadRequest, "duplicate_member", "ring members must be unique")
	case errors.Is(err, anoncred.ErrRingNotFound):
		return NewHTTPError(http.StatusNotFound, "ring_not_found", "no ring stored for attribute")
	case errors.Is(err, anoncred.ErrKeyMismatch):
		return NewHTTPError(http.StatusBadRequest, "key_mismatch", "secret key does not match ring member")
	case errors.Is(err, anoncred.ErrInvalidParameter):
		return NewHTTPError(http.StatusBadRequest, "invalid_parameter", err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal", "")
	}
}
