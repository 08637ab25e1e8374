package account

import (
	"sync"
	"time"
)

// attemptTracker counts failed sign-ins per email over a sliding window.
type attemptTracker struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	failures map[string][]time.Time
}

func newAttemptTracker(max int, window time.Duration) *attemptTracker {
	return &attemptTracker{
		max:      max,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

// recent drops failures older than the window. Caller holds the lock.
func (t *attemptTracker) recent(email string, now time.Time) []time.Time {
	fails := t.failures[email]
	i := 0
	for i < len(fails) && now.Sub(fails[i]) >= t.window {
		i++
	}
	fails = fails[i:]
	if len(fails) == 0 {
		delete(t.failures, email)
		return nil
	}
	t.failures[email] = fails
	return fails
}

func (t *attemptTracker) blocked(email string, now time.Time) bool {
	if t.max <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.recent(email, now)) >= t.max
}

func (t *attemptTracker) fail(email string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[email] = append(t.recent(email, now), now)
}

func (t *attemptTracker) reset(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, email)
}
