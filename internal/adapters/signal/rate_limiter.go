package signal

import (
	"sync"
	"time"
)

// SubmitRateLimiter caps how many songs one client may enqueue per window.
// Keys are browser-scoped tokens, so opening extra tabs buys no extra budget.
type SubmitRateLimiter struct {
	mu        sync.Mutex
	history   map[string][]time.Time
	limit     int
	interval  time.Duration
	lastPrune time.Time
}

func NewSubmitRateLimiter(limit int, interval time.Duration) *SubmitRateLimiter {
	return &SubmitRateLimiter{
		history:   make(map[string][]time.Time),
		limit:     limit,
		interval:  interval,
		lastPrune: time.Now(),
	}
}

func (rl *SubmitRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	if now.Sub(rl.lastPrune) > rl.interval {
		rl.pruneLocked(windowStart)
		rl.lastPrune = now
	}

	attempts := rl.history[key]

	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[key] = fresh

	return true
}

// pruneLocked drops histories whose attempts all aged out of the window, so
// departed clients do not accumulate in the map forever.
func (rl *SubmitRateLimiter) pruneLocked(windowStart time.Time) {
	for key, attempts := range rl.history {
		stale := true
		for _, t := range attempts {
			if t.After(windowStart) {
				stale = false
				break
			}
		}
		if stale {
			delete(rl.history, key)
		}
	}
}
