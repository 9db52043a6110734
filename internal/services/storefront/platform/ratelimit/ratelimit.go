// Package ratelimit throttles requests per client key.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const defaultMaxKeys = 10000

// Config sets the token bucket shape shared by every key.
type Config struct {
	// Every is the refill interval for one token.
	Every time.Duration
	Burst int
	// Idle evicts a key's bucket after it has been unused this long.
	Idle    time.Duration
	MaxKeys int
}

// Limiter holds one token bucket per key. Buckets are evicted after Idle so
// memory stays bounded without a cleanup goroutine of our own.
type Limiter struct {
	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// New builds a limiter. Zero values default to one token every 6s, burst 5,
// 10 minute idle eviction.
func New(cfg Config) *Limiter {
	if cfg.Every <= 0 {
		cfg.Every = 6 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Idle <= 0 {
		cfg.Idle = 10 * time.Minute
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = defaultMaxKeys
	}
	return &Limiter{
		buckets: expirable.NewLRU[string, *rate.Limiter](cfg.MaxKeys, nil, cfg.Idle),
		limit:   rate.Every(cfg.Every),
		burst:   cfg.Burst,
	}
}

// Allow consumes one token for key and reports whether it was available.
// A nil limiter allows everything.
func (l *Limiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	return l.bucket(key).Allow()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if bucket, ok := l.buckets.Get(key); ok {
		return bucket
	}
	bucket := rate.NewLimiter(l.limit, l.burst)
	l.buckets.Add(key, bucket)
	return bucket
}
