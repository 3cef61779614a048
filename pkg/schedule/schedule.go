// Package schedule coalesces bursts of changes into a single deferred call.
//
// A session calls Trigger after every mutation; the re-layout runs once the
// changes have settled for the configured wait. A new trigger supersedes
// the pending one.
package schedule

import (
	"sync"
	"time"

	"github.com/romdo/go-debounce"
)

// DefaultWait is the quiet period before a re-layout fires.
const DefaultWait = 500 * time.Millisecond

// Debouncer defers a call until triggers stop arriving.
type Debouncer interface {
	// Trigger schedules the call, replacing any pending one.
	Trigger()
	// Cancel drops the pending call, if any. The debouncer stays usable.
	Cancel()
}

// Timer is a wall-clock Debouncer.
type Timer struct {
	mu      sync.Mutex
	build   func() (func(), func())
	trigger func()
	cancel  func()
}

// New returns a Timer that runs fn once no trigger has arrived for wait.
func New(wait time.Duration, fn func()) *Timer {
	return newTimer(func() (func(), func()) { return debounce.New(wait, fn) })
}

// NewWithMaxWait is like New but runs fn at least every maxWait while
// triggers keep arriving.
func NewWithMaxWait(wait, maxWait time.Duration, fn func()) *Timer {
	return newTimer(func() (func(), func()) { return debounce.NewWithMaxWait(wait, maxWait, fn) })
}

// Factory returns a constructor for session debouncers. A non-positive
// wait selects DefaultWait; a positive maxWait bounds how long a steady
// stream of triggers, such as a dragged slider, can postpone the call.
func Factory(wait, maxWait time.Duration) func(fn func()) Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	if maxWait > 0 {
		return func(fn func()) Debouncer { return NewWithMaxWait(wait, maxWait, fn) }
	}
	return func(fn func()) Debouncer { return New(wait, fn) }
}

func newTimer(build func() (func(), func())) *Timer {
	t := &Timer{build: build}
	t.trigger, t.cancel = build()
	return t
}

// Trigger restarts the quiet period.
func (t *Timer) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trigger()
}

// Cancel drops the pending call and re-arms the timer.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel()
	t.trigger, t.cancel = t.build()
}

// Manual is a Debouncer driven by the caller. Trigger only records that a
// call is pending; Flush runs it.
type Manual struct {
	mu       sync.Mutex
	fn       func()
	pending  bool
	triggers int
	runs     int
}

// NewManual returns a Manual debouncer for fn.
func NewManual(fn func()) *Manual { return &Manual{fn: fn} }

// Trigger marks the call pending.
func (m *Manual) Trigger() {
	m.mu.Lock()
	m.pending = true
	m.triggers++
	m.mu.Unlock()
}

// Cancel clears a pending call.
func (m *Manual) Cancel() {
	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()
}

// Flush runs the pending call and reports whether there was one.
func (m *Manual) Flush() bool {
	m.mu.Lock()
	if !m.pending {
		m.mu.Unlock()
		return false
	}
	m.pending = false
	m.runs++
	fn := m.fn
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Pending reports whether a call is waiting.
func (m *Manual) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Stats returns how many triggers arrived and how many calls ran.
func (m *Manual) Stats() (triggers, runs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.triggers, m.runs
}
