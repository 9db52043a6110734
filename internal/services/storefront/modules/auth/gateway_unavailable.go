package auth

import (
	"context"

	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
)

type unavailableGateway struct{}

func (unavailableGateway) Login(context.Context, string, string) (session.Record, error) {
	return session.Record{}, apperrors.E(apperrors.KindUnavailable, "auth service is not configured")
}

func (unavailableGateway) Logout(context.Context, string) error {
	return nil
}

func (unavailableGateway) Register(context.Context, commerce.RegisterInput) (commerce.User, error) {
	return commerce.User{}, apperrors.E(apperrors.KindUnavailable, "auth service is not configured")
}
