// Package sessioncookie centralizes storefront session cookie behavior.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
)

// Name is the canonical storefront session cookie name.
const Name = "sf_session"

// Policy controls cookie security attributes.
type Policy struct {
	// ForceSecure marks the cookie Secure regardless of the request scheme.
	ForceSecure bool
	Scheme      requestmeta.SchemePolicy
}

func (p Policy) secure(r *http.Request) bool {
	return p.ForceSecure || requestmeta.IsHTTPS(r, p.Scheme)
}

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the session cookie. A zero expiresAt yields a browser-session cookie.
func Write(w http.ResponseWriter, r *http.Request, sessionID string, expiresAt time.Time, policy Policy) {
	if w == nil {
		return
	}
	cookie := &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.secure(r),
		SameSite: http.SameSiteLaxMode,
	}
	if !expiresAt.IsZero() {
		cookie.Expires = expiresAt.UTC()
	}
	http.SetCookie(w, cookie)
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy Policy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
