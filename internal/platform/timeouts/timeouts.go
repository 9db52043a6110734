// Package timeouts defines shared timeout constants used across the storefront.
package timeouts

import "time"

// UpstreamRequest caps a single call to the remote commerce API.
const UpstreamRequest = 10 * time.Second

// BreakerOpen is how long the commerce circuit stays open before probing again.
const BreakerOpen = 15 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// CheckoutFlow bounds how long an abandoned checkout flow stays resumable.
const CheckoutFlow = 30 * time.Minute

// CacheTTL bounds cached cart and order reads.
const CacheTTL = 2 * time.Minute
