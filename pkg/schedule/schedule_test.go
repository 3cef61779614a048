package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualCoalesces(t *testing.T) {
	var calls int
	m := NewManual(func() { calls++ })

	for range 5 {
		m.Trigger()
	}
	if !m.Pending() {
		t.Fatal("Pending() = false after triggers")
	}
	if !m.Flush() || calls != 1 {
		t.Errorf("Flush ran %d calls, want 1", calls)
	}
	if m.Flush() {
		t.Error("second Flush() ran without a trigger")
	}
	if triggers, runs := m.Stats(); triggers != 5 || runs != 1 {
		t.Errorf("Stats() = %d, %d", triggers, runs)
	}
}

func TestManualCancel(t *testing.T) {
	var calls int
	m := NewManual(func() { calls++ })
	m.Trigger()
	m.Cancel()
	if m.Flush() || calls != 0 {
		t.Error("cancelled call ran")
	}
	m.Trigger()
	m.Flush()
	if calls != 1 {
		t.Errorf("calls = %d after re-trigger, want 1", calls)
	}
}

func TestTimerCoalesces(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := New(20*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for range 10 {
		d.Trigger()
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestTimerCancelThenReuse(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := New(20*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	d.Trigger()
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("cancelled call ran %d times", got)
	}

	d.Trigger()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer unusable after Cancel")
	}
}

func TestTimerMaxWait(t *testing.T) {
	var calls atomic.Int32
	d := NewWithMaxWait(50*time.Millisecond, 100*time.Millisecond, func() { calls.Add(1) })

	// Triggers every 10ms never leave a 50ms quiet period; only maxWait fires.
	deadline := time.Now().Add(400 * time.Millisecond)
	for time.Now().Before(deadline) {
		d.Trigger()
		time.Sleep(10 * time.Millisecond)
	}
	d.Cancel()
	if got := calls.Load(); got < 1 {
		t.Errorf("calls = %d during continuous triggers, want at least 1", got)
	}
}

func TestFactory(t *testing.T) {
	tests := []struct {
		name          string
		wait, maxWait time.Duration
	}{
		{"default wait", 0, 0},
		{"plain", 20 * time.Millisecond, 0},
		{"max wait", 20 * time.Millisecond, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{}, 1)
			d := Factory(tt.wait, tt.maxWait)(func() { done <- struct{}{} })
			if _, ok := d.(*Timer); !ok {
				t.Fatalf("Factory() built %T, want *Timer", d)
			}
			d.Trigger()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("debounced call never ran")
			}
		})
	}
}
