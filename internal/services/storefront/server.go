// Package storefront hosts the browser-facing storefront service.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	"github.com/louisbranch/storefront/internal/platform/otel"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/shared/i18nhttp"
	"github.com/louisbranch/storefront/internal/services/storefront/app"
	checkoutflow "github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/cache"
	"github.com/louisbranch/storefront/internal/services/storefront/integration/commerce"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/modules"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/auth"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/metrics"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/observability"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/ratelimit"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/session"
	"github.com/louisbranch/storefront/internal/services/storefront/static"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/sqlite"
)

const (
	cacheKeyPrefix    = "storefront:"
	cacheMaxJitter    = 10 * time.Second
	memoryCacheSize   = 4096
	checkoutFlowLimit = 10000
)

// Config defines startup inputs for the storefront service.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	// PaymentMode selects the payment variant for the whole deployment.
	PaymentMode payment.Mode
	// ProviderKey is the payment provider's publishable key, rendered on the
	// payment step in gateway mode.
	ProviderKey string
	DBPath      string
	// RedisAddr enables the shared Redis read cache. Empty keeps an
	// in-process cache.
	RedisAddr           string
	CookieSecure        bool
	TrustForwardedProto bool
	// ImageCDNURL is a cloudinary:// URL. Empty serves product images as-is.
	ImageCDNURL string
	Logger      logrus.FieldLogger
}

// HandlerDeps carries the collaborators the root handler is composed from.
type HandlerDeps struct {
	// API is the commerce client modules read and mutate through, normally
	// the caching decorator.
	API            commerce.API
	Sessions       *session.Manager
	Checkout       checkout.FlowMachine
	Invalidator    UserInvalidator
	Images         imagecdn.Resolver
	PublishableKey string
	CookiePolicy   sessioncookie.Policy
	LoginLimiter   auth.Limiter
	Metrics        *metrics.Metrics
	Logger         logrus.FieldLogger
}

// Server hosts the storefront HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     logrus.FieldLogger
	closers    []func() error
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(deps HandlerDeps) (http.Handler, error) {
	if deps.API == nil {
		return nil, errors.New("commerce api is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	images := deps.Images
	if images == nil {
		images = imagecdn.Passthrough{}
	}

	principal := newPrincipalResolver(deps.Sessions, deps.Invalidator, deps.CookiePolicy, logger)
	rt := module.Runtime{
		ResolveViewer: principal.resolveViewer,
		ResolveLocale: i18nhttp.LocaleFromRequest,
		EndSession:    principal.endSession,
		CookiePolicy:  deps.CookiePolicy,
		Logger:        logger,
	}
	moduleDeps := modules.Dependencies{
		Images:         images,
		Binder:         forms.NewBinder(),
		Scheme:         deps.CookiePolicy.Scheme,
		Catalog:        deps.API,
		Sessions:       deps.Sessions,
		Accounts:       deps.API,
		LoginLimiter:   deps.LoginLimiter,
		Cart:           deps.API,
		Checkout:       deps.Checkout,
		PublishableKey: deps.PublishableKey,
		Orders:         deps.API,
	}
	publicModules := modules.DefaultPublicModules(moduleDeps, rt)
	protectedModules := modules.DefaultProtectedModules(moduleDeps, rt)

	h, err := app.Compose(app.ComposeInput{
		AuthRequired:        principal.authenticated,
		PublicModules:       publicModules,
		ProtectedModules:    protectedModules,
		RequestSchemePolicy: deps.CookiePolicy.Scheme,
	})
	if err != nil {
		return nil, err
	}

	allModules := append(append([]module.Module{}, publicModules...), protectedModules...)
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	rootMux.Handle(http.MethodGet+" "+routepath.Health, healthHandler(allModules))
	rootMux.Handle(http.MethodGet+" "+routepath.Metrics, deps.Metrics.Handler())
	rootMux.Handle(routepath.Root, h)

	return httpx.Chain(rootMux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		func(next http.Handler) http.Handler { return otel.Handler(next, "storefront") },
		observability.RequestLogger(logger),
		middleware.Compress(5),
		i18nhttp.Middleware(),
		principal.withSession(),
		deps.Metrics.Instrument,
	), nil
}

// healthHandler reports 503 while any module runs on its degraded gateway.
func healthHandler(mods []module.Module) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var degraded []string
		for _, m := range mods {
			if reporter, ok := m.(module.HealthReporter); ok && !reporter.Healthy() {
				degraded = append(degraded, m.ID())
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if len(degraded) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "degraded: %s\n", strings.Join(degraded, ","))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})
}

// newCheckoutMachine snapshots carts and creates orders against the live
// commerce API. The cached client only receives the invalidations.
func newCheckoutMachine(live checkoutflow.Commerce, cached checkoutflow.Invalidator, strategy payment.Strategy, m *metrics.Metrics, logger logrus.FieldLogger) (*checkoutflow.Machine, error) {
	return checkoutflow.NewMachine(checkoutflow.Config{
		Commerce:    live,
		Payments:    strategy,
		Store:       checkoutflow.NewMemoryStore(checkoutFlowLimit, timeouts.CheckoutFlow),
		Invalidator: cached,
		Recorder:    m,
		Logger:      logger,
	})
}

// NewServer validates config, opens storage, and constructs a storefront
// server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	srv := &Server{httpAddr: httpAddr, logger: logger}

	api, err := commerce.New(commerce.Config{BaseURL: cfg.APIBaseURL, Logger: logger})
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	srv.closers = append(srv.closers, store.Close)

	sessions := session.NewManager(store, api, session.Options{Logger: logger})
	if err := sessions.Init(ctx); err != nil {
		srv.Close()
		return nil, fmt.Errorf("init sessions: %w", err)
	}

	var cacheStore cache.Store
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		srv.closers = append(srv.closers, client.Close)
		cacheStore = cache.NewRedisStore(client, cacheKeyPrefix, cacheMaxJitter)
	} else {
		cacheStore = cache.NewMemoryStore(memoryCacheSize, timeouts.CacheTTL)
	}
	m := metrics.New()
	cached := cache.NewClient(api, cacheStore, cache.Options{TTL: timeouts.CacheTTL, Logger: logger, Recorder: m})

	strategy, err := payment.New(cfg.PaymentMode, cached)
	if err != nil {
		srv.Close()
		return nil, err
	}
	machine, err := newCheckoutMachine(api, cached, strategy, m, logger)
	if err != nil {
		srv.Close()
		return nil, err
	}
	images, err := imagecdn.New(cfg.ImageCDNURL)
	if err != nil {
		srv.Close()
		return nil, err
	}

	publishableKey := ""
	if cfg.PaymentMode == payment.ModeGateway {
		publishableKey = strings.TrimSpace(cfg.ProviderKey)
	}
	handler, err := NewHandler(HandlerDeps{
		API:            cached,
		Sessions:       sessions,
		Checkout:       machine,
		Invalidator:    cached,
		Images:         images,
		PublishableKey: publishableKey,
		CookiePolicy: sessioncookie.Policy{
			ForceSecure: cfg.CookieSecure,
			Scheme:      requestSchemePolicy(cfg),
		},
		LoginLimiter: ratelimit.New(ratelimit.Config{}),
		Metrics:      m,
		Logger:       logger,
	})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("compose storefront handler: %w", err)
	}

	srv.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	logger.WithFields(logrus.Fields{
		"http_addr":    httpAddr,
		"payment_mode": string(cfg.PaymentMode),
		"redis":        strings.TrimSpace(cfg.RedisAddr) != "",
	}).Info("storefront configured")
	return srv, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("storefront server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown storefront http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve storefront http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("close storefront resource")
		}
	}
	s.closers = nil
}

func requestSchemePolicy(cfg Config) requestmeta.SchemePolicy {
	return requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
}
