// Package ratelimiter provides token-bucket rate limiting for filesystem
// operations, wrapping golang.org/x/time/rate.
//
// Tokens accumulate at the configured sustained rate; each operation
// consumes one. The burst capacity absorbs short spikes above the sustained
// rate. All methods are safe for concurrent use.
package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// effectively unlimited; rate.Inf has edge cases around burst handling
const unlimitedRate = 1_000_000_000

// RateLimiter limits the rate of filesystem operations.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing opsPerSecond sustained operations with
// the given burst capacity. opsPerSecond = 0 disables limiting.
func New(opsPerSecond, burst uint) *RateLimiter {
	if opsPerSecond == 0 {
		opsPerSecond = unlimitedRate
		burst = opsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(opsPerSecond), int(burst)),
	}
}

// Allow reports whether an operation may proceed right now, consuming a
// token if so. Use this to reject over-limit work instead of delaying it.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// AllowN reports whether n operations may proceed right now, consuming n
// tokens if so. No tokens are consumed when fewer than n are available.
func (r *RateLimiter) AllowN(n uint) bool {
	return r.limiter.AllowN(time.Now(), int(n))
}

// Wait blocks until a token is available or the context is cancelled.
// Use this to throttle work instead of rejecting it.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// SetLimit updates the sustained rate. The burst is re-derived (2x the new
// rate) when it tracked the old rate, so the bucket can still hold tokens
// accumulated at the new rate.
func (r *RateLimiter) SetLimit(opsPerSecond uint) {
	if opsPerSecond == 0 {
		opsPerSecond = unlimitedRate
	}

	oldRate := uint(r.limiter.Limit())
	oldBurst := uint(r.limiter.Burst())
	r.limiter.SetLimit(rate.Limit(opsPerSecond))

	if oldBurst == oldRate*2 || oldBurst <= oldRate {
		r.limiter.SetBurst(int(opsPerSecond * 2))
	}
}

// SetBurst updates the burst capacity.
func (r *RateLimiter) SetBurst(burst uint) {
	r.limiter.SetBurst(int(burst))
}

// Tokens returns the current number of available tokens, for monitoring.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}
