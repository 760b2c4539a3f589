package signal

import (
	"testing"
	"time"
)

func TestSubmitRateLimiterEnforcesWindow(t *testing.T) {
	rl := NewSubmitRateLimiter(2, 50*time.Millisecond)

	if !rl.Allow("browser-a") || !rl.Allow("browser-a") {
		t.Fatalf("attempts under the limit were denied")
	}
	if rl.Allow("browser-a") {
		t.Fatalf("third attempt inside the window was allowed")
	}
	// Other clients keep their own budget.
	if !rl.Allow("browser-b") {
		t.Fatalf("separate client was denied by another client's history")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("browser-a") {
		t.Fatalf("attempt after the window expired was denied")
	}
}

func TestSubmitRateLimiterPrunesStaleHistories(t *testing.T) {
	rl := NewSubmitRateLimiter(1, 10*time.Millisecond)

	for _, key := range []string{"gone-1", "gone-2", "gone-3"} {
		rl.Allow(key)
	}
	time.Sleep(20 * time.Millisecond)

	// Any call after the window elapses sweeps aged-out entries.
	rl.Allow("active")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.history) != 1 {
		t.Fatalf("history holds %d entries, want only the active one", len(rl.history))
	}
	if _, ok := rl.history["active"]; !ok {
		t.Fatalf("active client was pruned")
	}
}
