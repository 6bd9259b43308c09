package runtime

import (
	"sort"
	"time"
)

// Timer is a handle returned by Loop.AfterFunc; Cancel before it fires to
// drop it, the same "resources tied to owning structs, released
// deterministically" contract spec §5 asks of every suspension point.
type Timer struct {
	deadline  time.Time
	fire      func()
	cancelled bool
}

func (t *Timer) Cancel() { t.cancelled = true }

// timerWheel is a sorted-slice timer queue — simple rather than a real
// hashed wheel, since the present loop schedules at most a handful of
// pending retries/pacing timers per connector at once (spec §5's
// backpressure note: "never queues more than one in-flight flip per
// connector").
type timerWheel struct {
	now    func() time.Time
	timers []*Timer
}

func newTimerWheel() *timerWheel {
	return &timerWheel{now: time.Now}
}

func (w *timerWheel) add(d time.Duration, f func()) *Timer {
	t := &Timer{deadline: w.now().Add(d), fire: f}
	w.timers = append(w.timers, t)
	return t
}

// advanceToNow fires every non-cancelled timer whose deadline has passed,
// in deadline order, and drops them from the wheel.
func (w *timerWheel) advanceToNow() {
	if len(w.timers) == 0 {
		return
	}
	now := w.now()
	sort.Slice(w.timers, func(i, j int) bool { return w.timers[i].deadline.Before(w.timers[j].deadline) })
	i := 0
	for ; i < len(w.timers); i++ {
		t := w.timers[i]
		if t.deadline.After(now) {
			break
		}
		if !t.cancelled {
			t.fire()
		}
	}
	w.timers = w.timers[i:]
}

// nextDeadlineIn returns how long until the soonest live timer fires, or -1
// if there are none (block indefinitely on the poller).
func (w *timerWheel) nextDeadlineIn() time.Duration {
	var soonest *time.Time
	for _, t := range w.timers {
		if t.cancelled {
			continue
		}
		if soonest == nil || t.deadline.Before(*soonest) {
			d := t.deadline
			soonest = &d
		}
	}
	if soonest == nil {
		return -1
	}
	if d := soonest.Sub(w.now()); d > 0 {
		return d
	}
	return 0
}
