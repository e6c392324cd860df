package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AIRateLimiter caps how many model requests each provider, and all
// providers together, may receive per window.
type AIRateLimiter struct {
	mu         sync.Mutex
	counts     map[string]int
	limits     map[string]int
	totalCount int
	maxTotal   int
	window     time.Duration
	resetTime  time.Time
	now        func() time.Time
	log        *slog.Logger
}

// NewAIRateLimiter creates a limiter. A limit of 0 means unlimited.
func NewAIRateLimiter(limits map[string]int, maxTotal int, window time.Duration, log *slog.Logger) *AIRateLimiter {
	if window <= 0 {
		window = 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	l := make(map[string]int, len(limits))
	for k, v := range limits {
		l[k] = v
	}
	rl := &AIRateLimiter{
		counts:   make(map[string]int),
		limits:   l,
		maxTotal: maxTotal,
		window:   window,
		now:      time.Now,
		log:      log,
	}
	rl.resetTime = rl.now().Add(window)
	return rl
}

// CanUse reports whether a request to provider would be accepted.
func (rl *AIRateLimiter) CanUse(provider string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()
	return rl.check(provider) == nil
}

// Use records one request to provider, or fails when a limit is reached.
func (rl *AIRateLimiter) Use(provider string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()
	if err := rl.check(provider); err != nil {
		rl.log.Warn("AI rate limit reached", "provider", provider, "error", err)
		return err
	}

	rl.counts[provider]++
	rl.totalCount++

	rl.log.Debug("AI usage",
		"provider", provider,
		"used", rl.counts[provider],
		"limit", rl.limits[provider],
		"total", rl.totalCount,
		"total_limit", rl.maxTotal,
	)
	return nil
}

func (rl *AIRateLimiter) check(provider string) error {
	if max := rl.limits[provider]; max > 0 && rl.counts[provider] >= max {
		return fmt.Errorf("%s rate limit exceeded (%d/%d)", provider, rl.counts[provider], max)
	}
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		return fmt.Errorf("total AI rate limit exceeded (%d/%d)", rl.totalCount, rl.maxTotal)
	}
	return nil
}

// GetStats returns current rate limiter statistics
func (rl *AIRateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := map[string]interface{}{
		"total_used":  rl.totalCount,
		"total_limit": rl.maxTotal,
		"reset_time":  rl.resetTime,
	}
	for p, n := range rl.counts {
		stats[p+"_used"] = n
	}
	for p, n := range rl.limits {
		stats[p+"_limit"] = n
	}
	return stats
}

// checkReset resets counters if reset time has passed
func (rl *AIRateLimiter) checkReset() {
	if rl.now().After(rl.resetTime) {
		rl.log.Info("resetting AI rate limiter counters", "total_used", rl.totalCount)
		rl.counts = make(map[string]int)
		rl.totalCount = 0
		rl.resetTime = rl.now().Add(rl.window)
	}
}
