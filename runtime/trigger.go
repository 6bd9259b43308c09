package runtime

import "sync/atomic"

// Trigger is a level-triggered edge event. Set must be called from the
// loop's own goroutine — a worker finishing a job (spec §4.4/§5) reaches it
// by calling Loop.PostCompletion with a closure that calls Set, not by
// calling Set directly from the worker. The loop wakes whichever task is
// awaiting the trigger on the next RunOnce; Set is idempotent before that
// wake is observed, matching "level-triggered via atomic-set-and-wake."
type Trigger struct {
	set  atomic.Bool
	loop atomic.Pointer[Loop]
}

// attach records which loop is currently awaiting this trigger, so Set
// knows where to deliver the wake. Called by Loop.AwaitTrigger.
func (t *Trigger) attach(l *Loop) {
	t.loop.Store(l)
	if t.set.Load() {
		t.deliver()
	}
}

// Set marks the trigger fired; if a loop is currently awaiting it, the
// waiter is scheduled immediately. Must be called from the loop's own
// goroutine (see the type doc).
func (t *Trigger) Set() {
	if !t.set.CompareAndSwap(false, true) {
		return
	}
	t.deliver()
}

func (t *Trigger) deliver() {
	l := t.loop.Load()
	if l == nil {
		return
	}
	if t.set.CompareAndSwap(true, false) {
		l.wake(t)
	}
}

// IsSet reports the trigger's current state without clearing it.
func (t *Trigger) IsSet() bool { return t.set.Load() }
