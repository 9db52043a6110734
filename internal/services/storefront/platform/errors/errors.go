// Package errors defines storefront typed application errors.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
)

// Error is a typed storefront application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	Err     error
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap exposes the upstream cause.
func (e Error) Unwrap() error { return e.Err }

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// Wrap attaches kind and key to an upstream cause.
func Wrap(kind Kind, key string, err error) error {
	if err == nil {
		return nil
	}
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: err.Error(), Err: err}
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Key)
}

// statusCoder is implemented by upstream client errors that carry an HTTP
// status from the remote API.
type statusCoder interface {
	HTTPStatusCode() int
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return upstreamHTTPStatus(err, http.StatusInternalServerError)
	}
	switch appErr.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		if appErr.Err != nil {
			return upstreamHTTPStatus(appErr.Err, http.StatusInternalServerError)
		}
		return http.StatusInternalServerError
	}
}

// upstreamHTTPStatus translates a remote API status into the status the
// storefront answers with.
func upstreamHTTPStatus(err error, fallback int) int {
	var coder statusCoder
	if !stderrors.As(err, &coder) {
		return fallback
	}
	code := coder.HTTPStatusCode()
	switch {
	case code == http.StatusUnauthorized:
		return http.StatusUnauthorized
	case code == http.StatusForbidden:
		return http.StatusForbidden
	case code == http.StatusNotFound:
		return http.StatusNotFound
	case code == http.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case code >= 400 && code < 500:
		return http.StatusBadRequest
	case code >= 500:
		return http.StatusServiceUnavailable
	default:
		return fallback
	}
}

// IsUnauthorized reports whether err should end the local session.
func IsUnauthorized(err error) bool {
	return err != nil && HTTPStatus(err) == http.StatusUnauthorized
}

// DefaultKey returns the generic localization key for a status code.
func DefaultKey(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "core.error.invalid_input"
	case http.StatusUnauthorized:
		return "core.error.session_expired"
	case http.StatusForbidden:
		return "core.error.forbidden"
	case http.StatusNotFound:
		return "core.error.not_found"
	case http.StatusTooManyRequests:
		return "core.error.too_many_requests"
	case http.StatusServiceUnavailable:
		return "core.error.unavailable"
	default:
		return "core.error.server"
	}
}
