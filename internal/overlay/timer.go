package overlay

import (
	"sync"
	"time"
)

// timer is a cancellable one-shot handle. Arming always supersedes any
// previously armed instance, never stacks: at most one callback per handle
// can be outstanding, and a superseded or cancelled callback never fires.
type timer struct {
	mu  sync.Mutex
	t   *time.Timer
	gen uint64
}

// Arm schedules fn after d, cancelling any previous arming of this handle.
func (tm *timer) Arm(d time.Duration, fn func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.t != nil {
		tm.t.Stop()
	}
	tm.gen++
	gen := tm.gen
	tm.t = time.AfterFunc(d, func() {
		tm.mu.Lock()
		live := tm.gen == gen
		if live {
			tm.t = nil
		}
		tm.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel stops any outstanding callback. Idempotent.
func (tm *timer) Cancel() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.gen++
	if tm.t != nil {
		tm.t.Stop()
		tm.t = nil
	}
}

// Armed reports whether a callback is outstanding.
func (tm *timer) Armed() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.t != nil
}
