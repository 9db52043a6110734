package storefront

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

// SessionLookup resolves and ends browser sessions.
type SessionLookup interface {
	Lookup(ctx context.Context, id string) (session.Record, bool, error)
	Logout(ctx context.Context, id string) error
}

// UserInvalidator drops cached per-user reads.
type UserInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// principalResolver turns the session cookie into the request principal.
// The record is resolved once per request by withSession and read back from
// the request context everywhere else.
type principalResolver struct {
	sessions    SessionLookup
	invalidator UserInvalidator
	policy      sessioncookie.Policy
	logger      logrus.FieldLogger
}

func newPrincipalResolver(sessions SessionLookup, invalidator UserInvalidator, policy sessioncookie.Policy, logger logrus.FieldLogger) principalResolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return principalResolver{sessions: sessions, invalidator: invalidator, policy: policy, logger: logger}
}

// withSession attaches the live session record to the request context.
// A cookie naming an unknown or expired session is cleared.
func (p principalResolver) withSession() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil || p.sessions == nil {
				next.ServeHTTP(w, r)
				return
			}
			sessionID, ok := sessioncookie.Read(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			record, found, err := p.sessions.Lookup(r.Context(), sessionID)
			if err != nil {
				p.logger.WithError(err).Warn("resolve session")
				next.ServeHTTP(w, r)
				return
			}
			if !found {
				sessioncookie.Clear(w, r, p.policy)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithRecord(r.Context(), record)))
		})
	}
}

func (p principalResolver) authenticated(r *http.Request) bool {
	if r == nil {
		return false
	}
	_, ok := session.FromContext(r.Context())
	return ok
}

func (p principalResolver) resolveViewer(r *http.Request) module.Viewer {
	if r == nil {
		return module.Viewer{}
	}
	record, ok := session.FromContext(r.Context())
	if !ok {
		return module.Viewer{}
	}
	return module.Viewer{
		Authenticated: true,
		UserID:        record.UserID,
		Name:          record.Name,
		Email:         record.Email,
	}
}

// endSession deletes the stored record, drops the user's cached cart and
// orders, and clears the cookie.
func (p principalResolver) endSession(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		return
	}
	ctx := r.Context()
	sessionID := ""
	if record, ok := session.FromContext(ctx); ok {
		sessionID = record.ID
		if p.invalidator != nil && record.UserID != "" {
			p.invalidator.InvalidateUser(ctx, record.UserID)
		}
	} else if id, ok := sessioncookie.Read(r); ok {
		sessionID = id
	}
	if sessionID != "" && p.sessions != nil {
		if err := p.sessions.Logout(ctx, sessionID); err != nil {
			p.logger.WithError(err).Warn("end session")
		}
	}
	sessioncookie.Clear(w, r, p.policy)
}
