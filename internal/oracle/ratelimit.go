package oracle

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled on demand from elapsed wall time,
// sized in requests per minute. Doing the refill arithmetic inside take keeps
// the limiter free of background goroutines.
type rateLimiter struct {
	mu       sync.Mutex
	interval time.Duration // time one token takes to regenerate
	capacity float64
	tokens   float64
	last     time.Time
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &rateLimiter{
		interval: time.Minute / time.Duration(requestsPerMinute),
		capacity: float64(requestsPerMinute),
		tokens:   float64(requestsPerMinute),
		last:     time.Now(),
	}
}

// wait blocks until a token is available or ctx is canceled. The bucket
// starts full, so a burst up to the per-minute budget goes through
// immediately.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		if rl.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limit wait aborted: %w", ctx.Err())
		case <-time.After(rl.interval):
		}
	}
}

func (rl *rateLimiter) take() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	regenerated := float64(now.Sub(rl.last)) / float64(rl.interval)
	rl.tokens = math.Min(rl.capacity, rl.tokens+regenerated)
	rl.last = now

	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}
