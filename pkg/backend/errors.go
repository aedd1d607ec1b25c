package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors classify every failure mode a console screen needs to
// distinguish. HTTP responses are wrapped in *APIError values that unwrap to
// one of these, so callers can branch with errors.Is.
var (
	ErrUnauthenticated = errors.New("backend: authentication required")
	ErrForbidden       = errors.New("backend: permission denied")
	ErrNotFound        = errors.New("backend: resource not found")
	ErrServer          = errors.New("backend: server error")
	ErrUnavailable     = errors.New("backend: backend unreachable")
)

// APIError carries the HTTP context of a failed backend call.
type APIError struct {
	Status int
	Path   string
	Detail string
	kind   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %s %d: %s", e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: %s %d", e.Path, e.Status)
}

// Unwrap exposes the sentinel classification for errors.Is.
func (e *APIError) Unwrap() error {
	return e.kind
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrServer
	}
}

// UserMessage translates any backend error into the human-readable text the
// console surfaces in notifications and alert banners.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to perform this action."
	case errors.Is(err, ErrNotFound):
		return "The requested record no longer exists."
	case errors.Is(err, ErrServer):
		return "The server reported an error. Please try again."
	case errors.Is(err, ErrUnavailable):
		return "Could not reach the server. Check your connection and retry."
	default:
		return "Something went wrong. Please try again."
	}
}
