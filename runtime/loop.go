// Package runtime implements the single-threaded cooperative scheduler spec
// §4.8 describes: phase-ordered task queues, level-triggered events, a
// timer wheel, and fd-readiness completions. Grounded on
// `internal/thread.RenderLoop`'s phase-gated tick idea (a pending-resize
// latch consumed once per render-thread iteration) generalized from "one
// dedicated render thread with one latch" to the three ordered phases this
// package's callers actually need.
package runtime

import (
	"fmt"
	"time"
)

// Phase discriminates the three ordered task groups a tick runs, per spec
// §4.8: "input-dispatch, layout, present... present may schedule the next,
// but never re-enters the input phase."
type Phase int

const (
	PhaseInput Phase = iota
	PhaseLayout
	PhasePresent

	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseLayout:
		return "layout"
	case PhasePresent:
		return "present"
	default:
		return "unknown"
	}
}

// Loop is the main-thread scheduler. It owns every suspension point the
// compositor core can block on — fd readiness, triggered events, timers —
// so nothing outside this package parks a goroutine waiting on I/O; the
// scene graph and seat (spec §5) are mutated only while a tick's phase
// callbacks run, never concurrently with them.
type Loop struct {
	queued      [numPhases][]func()
	poller      *poller
	timers      *timerWheel
	triggers    map[*Trigger]func()
	completions chan func()
	stopped     bool
}

// New creates a Loop with its own epoll instance (Linux) or the no-op
// stand-in (every other GOOS, since DRM/KMS — and so this compositor — is
// Linux-only).
func New() (*Loop, error) {
	p, err := newPoller()
	if err != nil {
		return nil, fmt.Errorf("runtime: creating poller: %w", err)
	}
	return &Loop{
		poller:      p,
		timers:      newTimerWheel(),
		triggers:    map[*Trigger]func(){},
		completions: make(chan func(), 64),
	}, nil
}

// PostCompletion is the only method on Loop safe to call from a goroutine
// other than the one running RunOnce — it hands f to the loop's own
// goroutine to run at the start of its next tick. CPU worker-pool jobs
// (spec §4.4/§5: "memcpy and io-uring read/write jobs whose completion is
// delivered back as an async event on the main thread") call this instead
// of touching Trigger/Schedule state directly, which is why Trigger.Set is
// documented as loop-goroutine-only: workers reach a Trigger by posting a
// completion that calls Set from inside f.
func (l *Loop) PostCompletion(f func()) {
	l.completions <- f
}

// drainCompletions runs every completion posted since the last tick, on
// the loop's own goroutine, before any phase's queued tasks run.
func (l *Loop) drainCompletions() {
	for {
		select {
		case f := <-l.completions:
			f()
		default:
			return
		}
	}
}

// Schedule enqueues f to run the next time phase's tasks execute. Safe to
// call from within a running phase callback: f is appended to phase's
// queue, so it still runs in the current RunOnce if phase is the running
// phase or a later one, and on the next tick if phase has already drained
// (e.g. present scheduling input, per spec §4.8).
func (l *Loop) Schedule(phase Phase, f func()) {
	l.queued[phase] = append(l.queued[phase], f)
}

// AwaitFd registers f to run once fd becomes readable (readableOut) or
// writable, then deregisters — a one-shot completion, matching spec §5's
// "await on io-uring readiness" suspension point modeled atop epoll
// (golang.org/x/sys/unix), the documented honest substitute since no pack
// repo or dependency binds real io_uring.
func (l *Loop) AwaitFd(fd int, writable bool, f func()) error {
	return l.poller.register(fd, writable, f)
}

// CancelFd withdraws an AwaitFd registration — the "futures are cancelled
// by drop" contract (spec §5) applied to fd waits.
func (l *Loop) CancelFd(fd int) {
	l.poller.unregister(fd)
}

// AfterFunc schedules f to run once, no earlier than d from now, as a
// Present-phase task (timers back frame pacing and retry backoffs, both
// present-loop concerns).
func (l *Loop) AfterFunc(d time.Duration, f func()) *Timer {
	return l.timers.add(d, func() { l.Schedule(PhasePresent, f) })
}

// AwaitTrigger registers f to run the next time t.Set is called, then
// auto-clears t — the "triggered edge events, level-triggered via
// atomic-set-and-wake" suspension point spec §4.8 names.
func (l *Loop) AwaitTrigger(t *Trigger, f func()) {
	l.triggers[t] = f
	t.attach(l)
}

// wake is called by a Trigger when it transitions false->true; it schedules
// the waiter as an Input-phase task (triggers back input-adjacent
// completions — client wake-ups, worker-pool job completions) and clears
// the registration, matching the one-shot semantics AwaitTrigger promises.
func (l *Loop) wake(t *Trigger) {
	f, ok := l.triggers[t]
	if !ok {
		return
	}
	delete(l.triggers, t)
	l.Schedule(PhaseInput, f)
}

// RunOnce drains one full tick: poll for ready fds and expired timers
// (non-blocking if anything is already queued, otherwise blocking until the
// next timer deadline or fd event), then run each phase's queued tasks in
// order. Tasks a phase schedules for the SAME phase during this call are
// appended and still run before RunOnce returns, since a present-phase task
// legitimately schedules more present-phase work (e.g. retry-without-async
// within one PresentOnce). Scheduling into a later phase also runs this
// tick; only scheduling into an earlier phase waits for the next tick.
func (l *Loop) RunOnce() error {
	if l.stopped {
		return fmt.Errorf("runtime: loop stopped")
	}
	timeout := l.pollTimeout()
	if err := l.poller.wait(timeout); err != nil {
		return fmt.Errorf("runtime: poll: %w", err)
	}
	l.timers.advanceToNow()
	l.drainCompletions()

	for phase := Phase(0); phase < numPhases; phase++ {
		for len(l.queued[phase]) > 0 {
			task := l.queued[phase][0]
			l.queued[phase] = l.queued[phase][1:]
			task()
		}
	}
	return nil
}

// pollTimeout picks how long RunOnce's poll step may block: zero if any
// phase already has queued work (drain it immediately), otherwise the
// duration until the timer wheel's next deadline, or -1 (block
// indefinitely) if there are no pending timers either.
func (l *Loop) pollTimeout() time.Duration {
	for phase := Phase(0); phase < numPhases; phase++ {
		if len(l.queued[phase]) > 0 {
			return 0
		}
	}
	if len(l.completions) > 0 {
		return 0
	}
	return l.timers.nextDeadlineIn()
}

// Stop closes the poller; RunOnce returns an error afterward.
func (l *Loop) Stop() error {
	l.stopped = true
	return l.poller.close()
}
