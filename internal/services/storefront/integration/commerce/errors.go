package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 from the commerce API.
	ErrUnauthorized = errors.New("commerce: unauthorized")
	// ErrNotFound matches any 404 from the commerce API.
	ErrNotFound = errors.New("commerce: not found")
	// ErrUnavailable is returned while the circuit breaker is open or the
	// upstream cannot be reached.
	ErrUnavailable = errors.New("commerce: unavailable")
)

// APIError is a non-2xx response from the commerce API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("commerce: status %d", e.Status)
	}
	return fmt.Sprintf("commerce: status %d: %s", e.Status, e.Detail)
}

// HTTPStatusCode exposes the upstream status for error-to-status mapping.
func (e *APIError) HTTPStatusCode() int {
	return e.Status
}

// Is matches the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	default:
		return false
	}
}

// unavailableError wraps transport failures so they report 503.
type unavailableError struct {
	err error
}

func (e unavailableError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnavailable, e.err)
}

func (e unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}

func (unavailableError) HTTPStatusCode() int {
	return http.StatusServiceUnavailable
}

// isTransient reports whether err should count against the breaker.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return true
}
