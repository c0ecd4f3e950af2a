// Package ratelimit throttles API calls per endpoint key so concurrent
// extraction calls stay under the platform's abuse thresholds.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between calls sharing a key.
const DefaultInterval = 500 * time.Millisecond

// Limiter enforces a minimum interval between calls with the same
// endpoint key. The empty key is the global throttle.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	perKey   map[string]*rate.Limiter
}

// New creates a limiter. A non-positive interval uses DefaultInterval.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Limiter{
		interval: interval,
		perKey:   make(map[string]*rate.Limiter),
	}
}

// Wait blocks until at least the configured interval has elapsed since
// the previous call with the same key, or ctx is cancelled. The
// underlying limiter serializes the wait-then-stamp sequence, so
// concurrent callers with the same key are spaced correctly.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.limiterFor(key).Wait(ctx)
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.perKey[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.perKey[key] = lim
	}
	return lim
}
