package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// authenticatedQuota is the hourly request quota for authenticated users.
	authenticatedQuota = 5000

	// proactiveRate paces requests at roughly 1.2 per second, which keeps
	// a long sync comfortably under the hourly quota.
	proactiveRate = 1.2

	// minRemaining is the request buffer kept in reserve. When the reported
	// remaining quota drops below it, the limiter waits for the reset
	// instead of burning the last requests.
	minRemaining = 100
)

// RateLimiter throttles GitHub API calls with two strategies: a token
// bucket for proactive pacing, and the X-RateLimit response headers for
// reactive backoff when the quota runs low.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
	bucket    *rate.Limiter
}

// NewRateLimiter creates a rate limiter assuming a full quota.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: authenticatedQuota,
		bucket:    rate.NewLimiter(rate.Limit(proactiveRate), 1),
	}
}

// Wait blocks until it is safe to make a request: first the pacing
// bucket, then a reset wait if the quota buffer is exhausted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	low := r.remaining < minRemaining
	resetAt := r.resetAt
	r.mu.Unlock()

	if !low {
		return nil
	}
	return waitUntil(ctx, resetAt)
}

// UpdateFromResponse records the quota state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil {
		r.remaining = v
	}
	if v, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		r.resetAt = time.Unix(v, 0)
	}
}

// Remaining returns the last reported remaining quota.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// ResetAt returns the quota reset time.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

// WaitForReset blocks until the quota resets or ctx is cancelled. The
// sync loop calls it after a RateLimitError to ride out the window.
func (r *RateLimiter) WaitForReset(ctx context.Context) error {
	return waitUntil(ctx, r.ResetAt())
}

// waitUntil sleeps until t, returning early only on ctx cancellation.
// A zero or past t returns immediately.
func waitUntil(ctx context.Context, t time.Time) error {
	if !time.Now().Before(t) {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Until(t)):
		return nil
	}
}
