// Package clock provides a deterministic test double for
// github.com/jacobsa/timeutil.Clock. Production code uses
// timeutil.RealClock() directly; this package exists only so getattr's wall
// clock (SPEC_FULL.md §4.4) can be tested without sleeping.
package clock

import (
	"sync"
	"time"
)

// SimulatedClock is a jacobsa/timeutil.Clock whose notion of "now" only
// advances when told to. The zero value is usable, initialized to the zero
// time.
type SimulatedClock struct {
	mu sync.RWMutex
	t  time.Time // GUARDED_BY(mu)
}

// NewSimulatedClock returns a clock fixed at startTime until advanced.
func NewSimulatedClock(startTime time.Time) *SimulatedClock {
	return &SimulatedClock{t: startTime}
}

// Now implements timeutil.Clock.
func (sc *SimulatedClock) Now() time.Time {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return sc.t
}

// After implements timeutil.Clock. Since nothing in this system schedules
// delayed work against the mount's clock, it fires immediately with the
// current simulated time rather than supporting full pending-timer
// bookkeeping.
func (sc *SimulatedClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- sc.Now()
	return ch
}

// SetTime moves the simulated clock to t.
func (sc *SimulatedClock) SetTime(t time.Time) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.t = t
}

// AdvanceTime moves the simulated clock forward by d.
func (sc *SimulatedClock) AdvanceTime(d time.Duration) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.t = sc.t.Add(d)
}
