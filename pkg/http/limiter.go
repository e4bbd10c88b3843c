package http

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing requests. Wait blocks until the next request may be sent.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// NewIntervalLimiter returns a limiter that lets one request through per interval.
// The first request is never delayed. A non-positive interval disables pacing.
func NewIntervalLimiter(interval time.Duration) RateLimiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
