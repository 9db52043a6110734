package auth

import (
	"context"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

// fakeSessions records logins and logouts. A login succeeds only for the
// configured password.
type fakeSessions struct {
	password string
	loginErr error

	loggedOut *[]string
}

var _ SessionGateway = fakeSessions{}

func (f fakeSessions) Login(_ context.Context, email, password string) (session.Record, error) {
	if f.loginErr != nil {
		return session.Record{}, f.loginErr
	}
	if password != f.password {
		return session.Record{}, &commerce.APIError{Status: 401, Detail: "Incorrect email or password"}
	}
	return session.Record{
		ID:        "sess-1",
		Token:     "token-1",
		UserID:    "7",
		Email:     email,
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f fakeSessions) Logout(_ context.Context, id string) error {
	if f.loggedOut != nil {
		*f.loggedOut = append(*f.loggedOut, id)
	}
	return nil
}

type fakeAccounts struct {
	err  error
	last *commerce.RegisterInput
}

var _ AccountGateway = fakeAccounts{}

func (f fakeAccounts) Register(_ context.Context, in commerce.RegisterInput) (commerce.User, error) {
	if f.last != nil {
		*f.last = in
	}
	if f.err != nil {
		return commerce.User{}, f.err
	}
	return commerce.User{ID: 7, Email: in.Email, Name: in.Name}, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }
