package runtime

import (
	"testing"
	"time"
)

func TestTimerWheelFiresInDeadlineOrder(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &timerWheel{now: func() time.Time { return now }}

	var order []string
	w.add(3*time.Second, func() { order = append(order, "c") })
	w.add(1*time.Second, func() { order = append(order, "a") })
	w.add(2*time.Second, func() { order = append(order, "b") })

	now = now.Add(5 * time.Second)
	w.advanceToNow()

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTimerWheelLeavesFutureTimersPending(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &timerWheel{now: func() time.Time { return now }}

	fired := false
	w.add(10*time.Second, func() { fired = true })

	now = now.Add(1 * time.Second)
	w.advanceToNow()

	if fired {
		t.Fatal("timer with a future deadline must not fire early")
	}
	if len(w.timers) != 1 {
		t.Fatalf("len(timers) = %d, want 1 (still pending)", len(w.timers))
	}
}

func TestCancelledTimerIsSkippedOnAdvance(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &timerWheel{now: func() time.Time { return now }}

	fired := false
	timer := w.add(1*time.Second, func() { fired = true })
	timer.Cancel()

	now = now.Add(2 * time.Second)
	w.advanceToNow()

	if fired {
		t.Fatal("a cancelled timer must not fire")
	}
}

func TestNextDeadlineInReturnsNegativeOneWhenEmpty(t *testing.T) {
	w := newTimerWheel()
	if d := w.nextDeadlineIn(); d != -1 {
		t.Fatalf("nextDeadlineIn() = %v, want -1 with no timers pending", d)
	}
}

func TestNextDeadlineInIgnoresCancelledTimers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &timerWheel{now: func() time.Time { return now }}

	t1 := w.add(5*time.Second, func() {})
	t1.Cancel()

	if d := w.nextDeadlineIn(); d != -1 {
		t.Fatalf("nextDeadlineIn() = %v, want -1 when every pending timer is cancelled", d)
	}
}

func TestNextDeadlineInReturnsZeroForPastDeadline(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &timerWheel{now: func() time.Time { return now }}

	w.add(-1*time.Second, func() {})

	if d := w.nextDeadlineIn(); d != 0 {
		t.Fatalf("nextDeadlineIn() = %v, want 0 for an already-due timer", d)
	}
}
