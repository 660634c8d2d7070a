package session

import (
	"sync"
	"time"
)

// Timers holds at most one armed timer per session: the code-expiry countdown
// while approved, or the duration countdown while active. Arming replaces any
// existing timer, and every transition away from the arming state cancels it.
type Timers struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTimers returns an empty timer registry.
func NewTimers() *Timers {
	return &Timers{timers: make(map[string]*time.Timer)}
}

// Arm schedules fn after d, replacing any timer already armed for the
// session. A non-positive d fires immediately.
func (t *Timers) Arm(sessionID string, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.timers[sessionID]; ok {
		old.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		// A fired timer cannot be stopped, so the session may already carry a
		// replacement; only the current entry is ours to delete.
		if t.timers[sessionID] == timer {
			delete(t.timers, sessionID)
		}
		t.mu.Unlock()
		fn()
	})
	t.timers[sessionID] = timer
}

// Cancel stops the session's armed timer, if any. Reports whether a timer was
// pending.
func (t *Timers) Cancel(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	timer, ok := t.timers[sessionID]
	if ok {
		timer.Stop()
		delete(t.timers, sessionID)
	}
	return ok
}

// Armed reports how many sessions currently have a pending timer.
func (t *Timers) Armed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
