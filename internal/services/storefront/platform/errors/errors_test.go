package errors

import (
	"fmt"
	"net/http"
	"testing"
)

type upstreamErr struct{ code int }

func (e upstreamErr) Error() string       { return fmt.Sprintf("upstream %d", e.code) }
func (e upstreamErr) HTTPStatusCode() int { return e.code }

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindInvalidInput, want: http.StatusBadRequest},
		{kind: KindUnauthorized, want: http.StatusUnauthorized},
		{kind: KindForbidden, want: http.StatusForbidden},
		{kind: KindUnavailable, want: http.StatusServiceUnavailable},
		{kind: KindNotFound, want: http.StatusNotFound},
		{kind: KindRateLimited, want: http.StatusTooManyRequests},
		{kind: KindUnknown, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "boom")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusMapsUpstreamCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want int
	}{
		{code: http.StatusUnauthorized, want: http.StatusUnauthorized},
		{code: http.StatusNotFound, want: http.StatusNotFound},
		{code: http.StatusUnprocessableEntity, want: http.StatusBadRequest},
		{code: http.StatusBadGateway, want: http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		err := fmt.Errorf("wrapped: %w", upstreamErr{code: tc.code})
		if got := HTTPStatus(err); got != tc.want {
			t.Fatalf("HTTPStatus(upstream %d) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestWrapKeepsUpstreamStatusForUnknownKind(t *testing.T) {
	t.Parallel()

	err := Wrap(KindUnknown, "cart.remove_failed", upstreamErr{code: http.StatusUnauthorized})
	if !IsUnauthorized(err) {
		t.Fatalf("expected wrapped 401 to be unauthorized, status %d", HTTPStatus(err))
	}
	if got := LocalizationKey(err); got != "cart.remove_failed" {
		t.Fatalf("LocalizationKey() = %q, want %q", got, "cart.remove_failed")
	}
	if Wrap(KindUnknown, "x", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}

func TestHTTPStatusNilAndPlainErrors(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want 200", got)
	}
	if got := HTTPStatus(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus(plain) = %d, want 500", got)
	}
}

func TestDefaultKey(t *testing.T) {
	t.Parallel()

	if got := DefaultKey(http.StatusNotFound); got != "core.error.not_found" {
		t.Fatalf("DefaultKey(404) = %q", got)
	}
	if got := DefaultKey(http.StatusTeapot); got != "core.error.server" {
		t.Fatalf("DefaultKey(418) = %q", got)
	}
}
