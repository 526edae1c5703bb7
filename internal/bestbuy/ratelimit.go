package bestbuy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyQuotaReached is returned when the daily API call quota has been
// exhausted.
var ErrDailyQuotaReached = errors.New("daily catalog API quota reached")

// RateLimiter throttles catalog API calls. A token bucket caps the
// per-second call rate; a rolling 24-hour window tracks the daily quota that
// the provider enforces per API key. One limiter is shared by every query
// running against the same credential.
type RateLimiter struct {
	bucket   *rate.Limiter
	used     atomic.Int64
	maxDaily int64

	mu      sync.Mutex
	resetAt time.Time
	nowFunc func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter with the given per-second rate,
// burst size, and daily quota. The 24-hour window starts at construction and
// rolls forward whenever it expires.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		bucket:   rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until the limiter allows the next call, or the context is
// canceled. Returns ErrDailyQuotaReached once the daily quota is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.rollWindow()

	if r.used.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyQuotaReached, r.used.Load(), r.maxDaily)
	}

	if err := r.bucket.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.used.Add(1)
	return nil
}

// Quota is a point-in-time view of daily quota usage.
type Quota struct {
	Used      int64     `json:"used"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Snapshot returns the current daily quota usage.
func (r *RateLimiter) Snapshot() Quota {
	r.mu.Lock()
	resetAt := r.resetAt
	r.mu.Unlock()

	used := r.used.Load()
	remaining := r.maxDaily - used
	if remaining < 0 {
		remaining = 0
	}
	return Quota{
		Used:      used,
		Limit:     r.maxDaily,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func (r *RateLimiter) rollWindow() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.used.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}
