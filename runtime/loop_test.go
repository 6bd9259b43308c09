package runtime

import (
	"os"
	"testing"
	"time"
)

func TestPhasesRunInOrder(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	var order []Phase
	l.Schedule(PhasePresent, func() { order = append(order, PhasePresent) })
	l.Schedule(PhaseInput, func() { order = append(order, PhaseInput) })
	l.Schedule(PhaseLayout, func() { order = append(order, PhaseLayout) })

	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	want := []Phase{PhaseInput, PhaseLayout, PhasePresent}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPresentPhaseCanScheduleMoreOfItselfSameTick(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	runs := 0
	var again func()
	again = func() {
		runs++
		if runs < 3 {
			l.Schedule(PhasePresent, again)
		}
	}
	l.Schedule(PhasePresent, again)

	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if runs != 3 {
		t.Fatalf("runs = %d, want 3 — a present task rescheduling itself must drain within the same tick", runs)
	}
}

func TestCrossPhaseSchedulingTargetsNextTick(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	inputRan := false
	l.Schedule(PhasePresent, func() {
		l.Schedule(PhaseInput, func() { inputRan = true })
	})

	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if inputRan {
		t.Fatal("present scheduling input must not run within the same tick (spec §4.8: present never re-enters input)")
	}
	if err := l.RunOnce(); err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	if !inputRan {
		t.Fatal("expected the input task scheduled by present to run on the following tick")
	}
}

func TestAfterFuncFiresAsPresentTask(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	fired := false
	l.AfterFunc(0, func() { fired = true })

	// The timer's deadline (now+0) has already passed by the time RunOnce
	// polls, so advanceToNow should schedule it as a present task this
	// tick, and that present task should run before RunOnce returns.
	time.Sleep(time.Millisecond)
	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !fired {
		t.Fatal("expected the zero-delay timer to have fired")
	}
}

func TestCancelledTimerNeverFires(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	fired := false
	timer := l.AfterFunc(0, func() { fired = true })
	timer.Cancel()

	time.Sleep(time.Millisecond)
	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if fired {
		t.Fatal("a cancelled timer must never fire")
	}
}

func TestPostCompletionRunsBeforePhases(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	var order []string
	l.Schedule(PhaseInput, func() { order = append(order, "input") })
	l.PostCompletion(func() { order = append(order, "completion") })

	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(order) != 2 || order[0] != "completion" || order[1] != "input" {
		t.Fatalf("order = %v, want [completion input]", order)
	}
}

func TestAwaitTriggerWakesOnNextRunOnce(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	trig := &Trigger{}
	woke := false
	l.AwaitTrigger(trig, func() { woke = true })

	l.PostCompletion(trig.Set)
	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !woke {
		t.Fatal("expected the trigger's waiter to run once Set is observed")
	}
	if trig.IsSet() {
		t.Fatal("trigger should have auto-cleared after delivering its wake")
	}
}

func TestAwaitFdFiresOnReadability(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Stop()

	fired := false
	if err := l.AwaitFd(int(r.Fd()), false, func() { fired = true }); err != nil {
		t.Fatalf("AwaitFd: %v", err)
	}

	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !fired {
		t.Fatal("expected the fd-readiness callback to fire once data was written")
	}
}
