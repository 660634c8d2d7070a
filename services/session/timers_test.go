package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimersArmFires(t *testing.T) {
	timers := NewTimers()
	fired := make(chan struct{})

	timers.Arm("sess-1", 10*time.Millisecond, func() { close(fired) })
	require.Equal(t, 1, timers.Armed())

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	// The fired timer removes itself.
	assert.Eventually(t, func() bool { return timers.Armed() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTimersCancel(t *testing.T) {
	timers := NewTimers()
	var fired atomic.Int32

	timers.Arm("sess-1", 20*time.Millisecond, func() { fired.Add(1) })
	require.True(t, timers.Cancel("sess-1"))
	assert.Equal(t, 0, timers.Armed())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "cancelled timer must not fire")

	assert.False(t, timers.Cancel("sess-1"), "second cancel finds nothing pending")
}

func TestTimersArmReplaces(t *testing.T) {
	timers := NewTimers()
	var first, second atomic.Int32

	// One timeline per session: re-arming replaces the pending timer.
	timers.Arm("sess-1", 20*time.Millisecond, func() { first.Add(1) })
	timers.Arm("sess-1", 30*time.Millisecond, func() { second.Add(1) })
	assert.Equal(t, 1, timers.Armed())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "replaced timer must not fire")
	assert.Equal(t, int32(1), second.Load())
}

func TestTimersFireDoesNotEvictReplacement(t *testing.T) {
	timers := NewTimers()
	fired := make(chan struct{})

	timers.Arm("sess-1", 20*time.Millisecond, func() { close(fired) })

	// Hold the mutex across the fire so the callback parks on it, then swap
	// in a replacement the way a concurrent re-arm would.
	timers.mu.Lock()
	time.Sleep(50 * time.Millisecond)
	timers.timers["sess-1"] = time.AfterFunc(time.Hour, func() {})
	timers.mu.Unlock()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	assert.Equal(t, 1, timers.Armed(), "the fired timer must not evict its replacement")
	assert.True(t, timers.Cancel("sess-1"))
}

func TestTimersIndependentSessions(t *testing.T) {
	timers := NewTimers()
	var fired atomic.Int32

	timers.Arm("sess-1", 10*time.Millisecond, func() { fired.Add(1) })
	timers.Arm("sess-2", 10*time.Millisecond, func() { fired.Add(1) })
	require.Equal(t, 2, timers.Armed())

	assert.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestTimersNonPositiveDelayFires(t *testing.T) {
	timers := NewTimers()
	fired := make(chan struct{})

	timers.Arm("sess-1", -time.Second, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer with elapsed deadline did not fire")
	}
}
