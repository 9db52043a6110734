package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

// SessionGateway opens and closes browser sessions.
type SessionGateway interface {
	Login(ctx context.Context, email, password string) (session.Record, error)
	Logout(ctx context.Context, id string) error
}

// AccountGateway creates accounts.
type AccountGateway interface {
	Register(ctx context.Context, in commerce.RegisterInput) (commerce.User, error)
}

// Limiter throttles sign-in attempts per key.
type Limiter interface {
	Allow(key string) bool
}

// errInvalidCredentials is a rejected email/password pair.
var errInvalidCredentials = errors.New("invalid credentials")

// registrationRejected is a 4xx answer to a registration attempt, such as
// an email that is already taken.
type registrationRejected struct {
	detail string
	cause  error
}

func (e registrationRejected) Error() string {
	if e.detail == "" {
		return "registration rejected"
	}
	return "registration rejected: " + e.detail
}

func (e registrationRejected) Unwrap() error { return e.cause }

type service struct {
	sessions SessionGateway
	accounts AccountGateway
}

func newService(sessions SessionGateway, accounts AccountGateway) service {
	if sessions == nil {
		sessions = unavailableGateway{}
	}
	if accounts == nil {
		accounts = unavailableGateway{}
	}
	return service{sessions: sessions, accounts: accounts}
}

// login maps an upstream 401 to invalid credentials; any other failure
// is returned as is.
func (s service) login(ctx context.Context, email, password string) (session.Record, error) {
	record, err := s.sessions.Login(ctx, email, password)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, commerce.ErrUnauthorized) || apperrors.IsUnauthorized(err) {
		return session.Record{}, errInvalidCredentials
	}
	return session.Record{}, err
}

func (s service) logout(ctx context.Context, sessionID string) error {
	return s.sessions.Logout(ctx, sessionID)
}

// register creates the account. Client errors come back as
// registrationRejected carrying the upstream detail.
func (s service) register(ctx context.Context, in registerForm) error {
	_, err := s.accounts.Register(ctx, commerce.RegisterInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	})
	if err == nil {
		return nil
	}
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= http.StatusBadRequest && apiErr.Status < http.StatusInternalServerError {
		return registrationRejected{detail: strings.TrimSpace(apiErr.Detail), cause: err}
	}
	return err
}
