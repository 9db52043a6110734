package commerce

import (
	"context"
	"strings"

	"github.com/louisbranch/storefront/internal/platform/i18n"
)

// Caller identifies who an upstream call is made for.
type Caller struct {
	Token  string
	Locale i18n.Locale
	// UserID scopes per-user cache entries; empty for anonymous callers.
	UserID string
}

type callerKey struct{}

// WithCaller attaches caller identity to ctx.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	caller.Token = strings.TrimSpace(caller.Token)
	caller.UserID = strings.TrimSpace(caller.UserID)
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the attached caller, or an anonymous caller in
// the default locale.
func CallerFromContext(ctx context.Context) Caller {
	if ctx != nil {
		if caller, ok := ctx.Value(callerKey{}).(Caller); ok {
			if !caller.Locale.Valid() {
				caller.Locale = i18n.Default
			}
			return caller
		}
	}
	return Caller{Locale: i18n.Default}
}
