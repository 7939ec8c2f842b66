package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors returned (wrapped) by Client. Use errors.Is to classify.
var (
	// ErrUnauthorized is a 401 or 403: the token is missing, expired or lacks the role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is a 404.
	ErrNotFound = errors.New("not found")
	// ErrValidation is any other 4xx, or a 2xx envelope reporting success=false.
	ErrValidation = errors.New("request rejected")
	// ErrRateLimited is a 429 that outlived the retry budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrServer is a 5xx that outlived the retry budget.
	ErrServer = errors.New("server error")
	// ErrTimeout is a per-attempt timeout that outlived the retry budget.
	ErrTimeout = errors.New("request timed out")
	// ErrIncompatibleServer is returned in strict mode when X-API-Version fails the constraint.
	ErrIncompatibleServer = errors.New("incompatible server version")
	// ErrDecode means the response body was not the expected JSON.
	ErrDecode = errors.New("decoding response")
)

// Error is a non-2xx response, or a 2xx envelope that reported failure.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the backend's "message" field, or "HTTP <code>" when absent.
	Message   string
	RequestID string

	retryAfter time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// Unwrap maps the status code to the package sentinel, so errors.Is(err, ErrNotFound) works.
func (e *Error) Unwrap() error {
	return classify(e.StatusCode)
}

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrValidation
	}
}

// IsAuthError reports whether err should send the user back to `stockdesk login`.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// retryable reports whether a failed attempt may be repeated.
func retryable(err error) bool {
	return errors.Is(err, ErrServer) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}
