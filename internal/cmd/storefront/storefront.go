// Package storefront parses storefront command flags and starts the server.
package storefront

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/platform/config"
	server "github.com/louisbranch/storefront/internal/services/storefront"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/observability"
)

// DotEnvFile is loaded, when present, before environment defaults are read.
const DotEnvFile = ".env"

// Config holds storefront command configuration.
type Config struct {
	HTTPAddr            string `env:"STOREFRONT_HTTP_ADDR"             envDefault:"localhost:3000"`
	APIBaseURL          string `env:"STOREFRONT_API_URL"               envDefault:"http://localhost:8000"`
	PaymentMode         string `env:"STOREFRONT_PAYMENT_MODE"          envDefault:"mock"`
	ProviderKey         string `env:"STOREFRONT_PROVIDER_KEY"`
	DBPath              string `env:"STOREFRONT_DB_PATH"               envDefault:"data/storefront.db"`
	RedisAddr           string `env:"STOREFRONT_REDIS_ADDR"`
	CookieSecure        bool   `env:"STOREFRONT_COOKIE_SECURE"`
	TrustForwardedProto bool   `env:"STOREFRONT_TRUST_FORWARDED_PROTO"`
	ImageCDNURL         string `env:"STOREFRONT_IMAGE_CDN"`
	LogLevel            string `env:"STOREFRONT_LOG_LEVEL"             envDefault:"info"`
	Telemetry           entrypoint.Telemetry
}

// ParseConfig parses .env, environment and flags into a Config. Flags win
// over the environment, which wins over .env.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if err := config.LoadDotEnv(DotEnvFile); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "commerce API base URL")
	fs.StringVar(&cfg.PaymentMode, "payment-mode", cfg.PaymentMode, "payment variant: mock or gateway")
	fs.StringVar(&cfg.ProviderKey, "provider-key", cfg.ProviderKey, "payment provider publishable key (gateway mode)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite session database path")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the shared read cache")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", cfg.CookieSecure, "always mark cookies Secure")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "trust X-Forwarded-Proto and X-Forwarded-For")
	fs.StringVar(&cfg.ImageCDNURL, "image-cdn", cfg.ImageCDNURL, "cloudinary:// URL for product images")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := payment.ParseMode(cfg.PaymentMode); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the storefront server and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	logger := observability.NewLogger(cfg.LogLevel)
	mode, err := payment.ParseMode(cfg.PaymentMode)
	if err != nil {
		return err
	}
	options := entrypoint.RunOptions{Telemetry: cfg.Telemetry, Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceStorefront, options, func(ctx context.Context) error {
		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			PaymentMode:         mode,
			ProviderKey:         cfg.ProviderKey,
			DBPath:              cfg.DBPath,
			RedisAddr:           cfg.RedisAddr,
			CookieSecure:        cfg.CookieSecure,
			TrustForwardedProto: cfg.TrustForwardedProto,
			ImageCDNURL:         cfg.ImageCDNURL,
			Logger:              logger,
		})
		if err != nil {
			return fmt.Errorf("init storefront server: %w", err)
		}
		defer srv.Close()

		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve storefront: %w", err)
		}
		return nil
	})
}
