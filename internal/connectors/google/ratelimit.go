package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig sets the sustained request rate and burst headroom
// for one Google service.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DriveRateLimit is a conservative default below Google's 10/sec/user cap.
var DriveRateLimit = RateLimitConfig{RequestsPerSecond: 8.0, BurstSize: 10}

// defaultBackoff is applied when a 429 response carries no Retry-After.
const defaultBackoff = 60 * time.Second

// RateLimiter combines a token bucket with a retry-at backoff for 429
// responses. Both gates apply: a recorded backoff is sat out before the
// bucket is consulted.
type RateLimiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter builds a limiter for cfg with no backoff recorded.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)}
}

// Wait blocks until a request may be sent, or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if wait := r.backoffRemaining(); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return r.bucket.Wait(ctx)
}

// backoffRemaining reports how much of the current 429 backoff is left.
func (r *RateLimiter) backoffRemaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Until(r.retryAt)
}

// RecordRateLimitError sets a backoff period after a 429 response.
// A non-positive retryAfterSeconds applies the default backoff.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	backoff := defaultBackoff
	if retryAfterSeconds > 0 {
		backoff = time.Duration(retryAfterSeconds) * time.Second
	}
	r.retryAt = time.Now().Add(backoff)
}
