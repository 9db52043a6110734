// Package app composes storefront modules into one root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	AuthRequired        func(*http.Request) bool
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	RequestSchemePolicy requestmeta.SchemePolicy
}

// Compose builds a root HTTP handler from module groups. Protected modules
// redirect anonymous visitors to login; every cookie-authenticated mutation
// must prove same origin.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	if input.AuthRequired == nil {
		input.AuthRequired = func(*http.Request) bool { return false }
	}
	seen := make(map[string]string)
	sameOrigin := requireCookieSessionSameOrigin(input.RequestSchemePolicy)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountFeature(root, feature, seen, false, sameOrigin); err != nil {
			return nil, err
		}
	}

	protect := wrapProtectedModule(input.AuthRequired, input.RequestSchemePolicy)
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		if err := mountFeature(root, feature, seen, true, protect); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// mountFeature registers the module's prefix, its slashless alias, and its
// exact paths.
func mountFeature(root *http.ServeMux, feature module.Module, seen map[string]string, protected bool, wrap func(http.Handler) http.Handler) error {
	mount, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if protected && (mount.Prefix == "" || mount.Prefix == routepath.Root) {
		return fmt.Errorf("protected module %q must mount under its own prefix, got %q", feature.ID(), mount.Prefix)
	}

	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	patterns := make([]string, 0, len(mount.Paths)+2)
	if mount.Prefix != "" {
		patterns = append(patterns, mount.Prefix)
		if alias := slashlessPrefixAlias(mount.Prefix); alias != "" {
			patterns = append(patterns, alias)
		}
	}
	for _, path := range mount.Paths {
		path = strings.TrimSpace(path)
		if err := validatePath(path); err != nil {
			return fmt.Errorf("mount module %q has invalid path %q: %w", feature.ID(), path, err)
		}
		patterns = append(patterns, path)
	}
	for _, pattern := range patterns {
		if previous, ok := seen[pattern]; ok {
			if previous == feature.ID() {
				continue
			}
			return fmt.Errorf("module %q duplicates route %q owned by module %q", feature.ID(), pattern, previous)
		}
		seen[pattern] = feature.ID()
		root.Handle(pattern, handler)
	}
	return nil
}

func resolveMount(feature module.Module) (module.Mount, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Prefix != "" {
		if err := validatePrefix(mount.Prefix); err != nil {
			return module.Mount{}, fmt.Errorf("mount module %q has invalid prefix %q: %w", feature.ID(), mount.Prefix, err)
		}
	}
	if mount.Prefix == "" && len(mount.Paths) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: prefix or paths are required", feature.ID())
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, nil
}

func validatePrefix(prefix string) error {
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix must not include surrounding whitespace")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if !strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix must end with /")
	}
	return nil
}

func validatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must begin with /")
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		return fmt.Errorf("path must not end with /; use a prefix")
	}
	return nil
}

func slashlessPrefixAlias(prefix string) string {
	if prefix == routepath.Root || !strings.HasSuffix(prefix, "/") {
		return ""
	}
	return strings.TrimSuffix(prefix, "/")
}

// requireAuth sends anonymous visitors to login. GET requests keep their
// destination as the post-login target.
func requireAuth(authenticated func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticated(r) {
				target := ""
				if r.Method == http.MethodGet && r.URL != nil {
					target = r.URL.RequestURI()
				}
				httpx.WriteRedirect(w, r, routepath.LoginWithNext(target))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func wrapProtectedModule(authenticated func(*http.Request) bool, policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	authWrap := requireAuth(authenticated)
	csrfWrap := requireCookieSessionSameOrigin(policy)
	return func(next http.Handler) http.Handler {
		return authWrap(csrfWrap(next))
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !httpx.IsMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
