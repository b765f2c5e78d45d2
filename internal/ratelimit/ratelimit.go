// Package ratelimit gates booking traffic per user.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// PerUserLimiter allows a bounded number of booking operations per user
// within a sliding window (token bucket: limit requests refilled over the
// window, with the full window as burst).
type PerUserLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewPerUserLimiter builds a limiter admitting maxRequests per user over
// windowSeconds seconds.
func NewPerUserLimiter(maxRequests int, windowSeconds int) *PerUserLimiter {
	return &PerUserLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(maxRequests) / float64(windowSeconds)),
		burst:    maxRequests,
	}
}

func (l *PerUserLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
