package scene

import (
	"testing"
	"time"

	"github.com/gocompose/wm/runtime"
)

type recordingSurface struct {
	enters, leaves int
	motions        [][2]float64
	buttons        []bool
	keys           []uint32
	keyboardEnters int
	keyboardLeaves int
}

func (r *recordingSurface) SendPointerEnter(serial uint32, x, y float64) {
	r.enters++
	r.motions = append(r.motions, [2]float64{x, y})
}
func (r *recordingSurface) SendPointerLeave(serial uint32) { r.leaves++ }
func (r *recordingSurface) SendPointerMotion(x, y float64) {
	r.motions = append(r.motions, [2]float64{x, y})
}
func (r *recordingSurface) SendPointerButton(serial uint32, button uint32, pressed bool) {
	r.buttons = append(r.buttons, pressed)
}
func (r *recordingSurface) SendPointerAxis(horiz, vert float64) {}
func (r *recordingSurface) SendKeyboardEnter(serial uint32, keys []uint32) { r.keyboardEnters++ }
func (r *recordingSurface) SendKeyboardLeave(serial uint32)                { r.keyboardLeaves++ }
func (r *recordingSurface) SendKey(serial uint32, keycode uint32, pressed bool) {
	r.keys = append(r.keys, keycode)
}
func (r *recordingSurface) SendModifiers(serial uint32, depressed, latched, locked, group uint32) {}

func twoNodeGraph() (g *Graph, a, b *Toplevel, surfA, surfB *recordingSurface) {
	g = NewGraph()
	out := NewOutput(g.AllocID(), Rect{X: 0, Y: 0, W: 1000, H: 1000})
	ws := NewWorkspace(g.AllocID(), Rect{X: 0, Y: 0, W: 1000, H: 1000})
	out.Active = ws
	surfA = &recordingSurface{}
	surfB = &recordingSurface{}
	a = NewToplevel(g.AllocID(), Rect{X: 0, Y: 0, W: 100, H: 100}, surfA)
	b = NewToplevel(g.AllocID(), Rect{X: 200, Y: 200, W: 100, H: 100}, surfB)
	ws.Stacked = append(ws.Stacked, a, b)
	g.AddOutput(out)
	return
}

func TestFindTreeAtResolvesLeaf(t *testing.T) {
	g, a, b, _, _ := twoNodeGraph()
	if n := g.FindTreeAt(50, 50); n == nil || n.ID() != a.ID() {
		t.Fatalf("expected node A at (50,50), got %v", n)
	}
	if n := g.FindTreeAt(250, 250); n == nil || n.ID() != b.ID() {
		t.Fatalf("expected node B at (250,250), got %v", n)
	}
}

// TestPointerFocusBalance exercises invariant 1: every enter is balanced
// by exactly one leave before the next enter.
func TestPointerFocusBalance(t *testing.T) {
	g, _, _, surfA, surfB := twoNodeGraph()
	seat := NewSeat("seat0")

	seat.HitTestAndRoute(g, 50, 50)
	seat.HitTestAndRoute(g, 250, 250)
	seat.HitTestAndRoute(g, 60, 60)

	if surfA.enters != 2 || surfA.leaves != 1 {
		t.Fatalf("A: enters=%d leaves=%d, want 2 enters 1 leave before re-entering", surfA.enters, surfA.leaves)
	}
	if surfB.enters != 1 || surfB.leaves != 1 {
		t.Fatalf("B: enters=%d leaves=%d, want 1 enter 1 leave", surfB.enters, surfB.leaves)
	}
}

// TestPointerGrabLifecycle is spec §8 scenario 3 verbatim: press at A,
// move to B, release — A gets all the button/motion events, B only gets
// entered after release.
func TestPointerGrabLifecycle(t *testing.T) {
	g, a, b, surfA, surfB := twoNodeGraph()
	seat := NewSeat("seat0")

	seat.HitTestAndRoute(g, 50, 50) // over A
	if seat.Owner.Kind != PointerDefault {
		t.Fatalf("expected Default before any press")
	}
	surfA.motions = nil // discard the enter-motion noise

	seat.Button(g, 1, true) // press
	if seat.Owner.Kind != PointerGrab || seat.Owner.Latched.ID() != a.ID() {
		t.Fatalf("expected Grab latched on A, got %+v", seat.Owner)
	}

	seat.HitTestAndRoute(g, 250, 250) // move to B while grabbed
	if len(surfB.motions) != 0 {
		t.Fatal("B must not receive motion while A holds the grab")
	}
	if len(surfA.motions) == 0 {
		t.Fatal("A should receive motion(250,250) while grabbed, per scenario 3")
	}

	seat.Button(g, 1, false) // release
	if seat.Owner.Kind != PointerDefault {
		t.Fatalf("expected Default after release, got %v", seat.Owner.Kind)
	}
	if surfB.enters == 0 {
		t.Fatal("B should be entered once the pointer re-resolves after release")
	}
	if len(surfA.buttons) != 2 || surfA.buttons[0] != true || surfA.buttons[1] != false {
		t.Fatalf("A should receive both the press and the release, got %v", surfA.buttons)
	}
}

// TestKeyboardFocusUniqueness is invariant 2: at most one surface per seat
// holds keyboard focus, and every focus change sends leave before enter.
func TestKeyboardFocusUniqueness(t *testing.T) {
	_, a, b, surfA, surfB := twoNodeGraph()
	seat := NewSeat("seat0")

	seat.FocusNode(a)
	if surfA.keyboardEnters != 1 {
		t.Fatalf("expected A entered once, got %d", surfA.keyboardEnters)
	}
	seat.FocusNode(b)
	if surfA.keyboardLeaves != 1 {
		t.Fatalf("expected A to receive leave before B's enter, got %d leaves", surfA.keyboardLeaves)
	}
	if surfB.keyboardEnters != 1 {
		t.Fatalf("expected B entered once, got %d", surfB.keyboardEnters)
	}
	if a.SeatState().IsKeyboardFocus(seat) {
		t.Fatal("A must no longer hold keyboard focus after FocusNode(B)")
	}
	if !b.SeatState().IsKeyboardFocus(seat) {
		t.Fatal("B should hold keyboard focus")
	}
}

// TestShortcutDispatchConsumesKeypress is spec §8 scenario 6: a matching
// shortcut fires exactly once and the focused surface receives neither
// key nor modifiers for that press.
func TestShortcutDispatchConsumesKeypress(t *testing.T) {
	_, a, _, surfA, _ := twoNodeGraph()
	seat := NewSeat("seat0")
	seat.FocusNode(a)

	const mod1 = 0x8
	const keysymF1 = 0x3e

	fired := 0
	seat.BindShortcut(mod1, keysymF1, func() { fired++ })
	seat.SetModifiers(mod1, 0, 0, 0)
	seat.Key(keysymF1, true, false)

	if fired != 1 {
		t.Fatalf("shortcut should fire exactly once, fired=%d", fired)
	}
	if len(surfA.keys) != 0 {
		t.Fatalf("focused surface should receive no key event for a consumed shortcut, got %v", surfA.keys)
	}
}

func TestKeyForwardsWhenNoShortcutMatches(t *testing.T) {
	_, a, _, surfA, _ := twoNodeGraph()
	seat := NewSeat("seat0")
	seat.FocusNode(a)

	seat.Key(30, true, false)
	if len(surfA.keys) != 1 || surfA.keys[0] != 30 {
		t.Fatalf("expected the key forwarded to the focused surface, got %v", surfA.keys)
	}
}

type fakeDataSource struct {
	finished, cancelled bool
}

func (f *fakeDataSource) Finish() { f.finished = true }
func (f *fakeDataSource) Cancel() { f.cancelled = true }

func TestStartDragRequiresMatchingGrabSerial(t *testing.T) {
	g, _, _, _, _ := twoNodeGraph()
	seat := NewSeat("seat0")
	seat.HitTestAndRoute(g, 50, 50)
	seat.Button(g, 1, true)

	src := &fakeDataSource{}
	if seat.StartDrag(src, nil, 1, seat.Owner.GrabSerial+1) {
		t.Fatal("StartDrag must reject a mismatched serial")
	}
	if !seat.StartDrag(src, nil, 1, seat.Owner.GrabSerial) {
		t.Fatal("StartDrag should succeed with the grab's own serial")
	}
	if seat.Owner.Kind != PointerDnd {
		t.Fatalf("expected Dnd after StartDrag, got %v", seat.Owner.Kind)
	}
}

func TestDndDropDeliversToTargetAndKeepsSourceAlive(t *testing.T) {
	g, a, b, _, _ := twoNodeGraph()
	seat := NewSeat("seat0")
	seat.HitTestAndRoute(g, 50, 50)
	seat.Button(g, 1, true)
	src := &fakeDataSource{}
	seat.StartDrag(src, nil, 1, seat.Owner.GrabSerial)

	seat.HitTestAndRoute(g, 250, 250) // drag over B
	if !b.SeatState().IsDndTarget(seat) {
		t.Fatal("B should be marked as the dnd target once hovered")
	}
	if a.SeatState().IsDndTarget(seat) {
		t.Fatal("A should no longer be the dnd target")
	}

	seat.Button(g, 1, false) // drop
	if seat.Owner.Kind != PointerDefault {
		t.Fatalf("expected Default after drop, got %v", seat.Owner.Kind)
	}
	if seat.DroppedDnd != src {
		t.Fatal("source should be kept alive in DroppedDnd after a successful drop")
	}
	if src.cancelled {
		t.Fatal("a delivered drop must not cancel the source")
	}
}

func TestDndCancelWhenNoTarget(t *testing.T) {
	g := NewGraph()
	out := NewOutput(g.AllocID(), Rect{X: 0, Y: 0, W: 1000, H: 1000})
	ws := NewWorkspace(g.AllocID(), Rect{X: 0, Y: 0, W: 1000, H: 1000})
	out.Active = ws
	g.AddOutput(out)
	a := NewToplevel(g.AllocID(), Rect{X: 0, Y: 0, W: 100, H: 100}, &recordingSurface{})
	ws.Stacked = append(ws.Stacked, a)

	seat := NewSeat("seat0")
	seat.HitTestAndRoute(g, 50, 50)
	seat.Button(g, 1, true)
	src := &fakeDataSource{}
	seat.StartDrag(src, nil, 1, seat.Owner.GrabSerial)

	seat.HitTestAndRoute(g, -100, -100) // outside every output's bounds
	seat.Button(g, 1, false)

	if !src.cancelled {
		t.Fatal("dropping with no target under the pointer must cancel the source")
	}
}

func TestArmRepeatCancelsPreviousTimer(t *testing.T) {
	loop, err := runtime.New()
	if err != nil {
		t.Fatal(err)
	}
	defer loop.Stop()

	seat := NewSeat("seat0")
	first := loop.AfterFunc(time.Hour, func() {})
	seat.ArmRepeat(30, first)
	if seat.RepeatTimer != first {
		t.Fatal("ArmRepeat did not record the timer")
	}

	second := loop.AfterFunc(time.Hour, func() {})
	seat.ArmRepeat(31, second)
	if seat.RepeatTimer != second {
		t.Fatal("ArmRepeat did not switch to the new timer")
	}
	if seat.repeatKeycode != 31 {
		t.Fatalf("repeatKeycode = %d, want 31", seat.repeatKeycode)
	}
}

func TestKeyReleaseCancelsMatchingRepeat(t *testing.T) {
	loop, err := runtime.New()
	if err != nil {
		t.Fatal(err)
	}
	defer loop.Stop()

	seat := NewSeat("seat0")
	timer := loop.AfterFunc(time.Hour, func() {})
	seat.ArmRepeat(30, timer)

	seat.Key(30, false, false)
	if seat.RepeatTimer != nil {
		t.Fatal("releasing the repeating key must clear RepeatTimer")
	}
}

func TestFocusChangeCancelsRepeat(t *testing.T) {
	loop, err := runtime.New()
	if err != nil {
		t.Fatal(err)
	}
	defer loop.Stop()

	seat := NewSeat("seat0")
	surf := &recordingSurface{}
	a := NewToplevel(1, Rect{W: 10, H: 10}, surf)
	seat.FocusNode(a)
	timer := loop.AfterFunc(time.Hour, func() {})
	seat.ArmRepeat(30, timer)

	seat.FocusNode(nil)
	if seat.RepeatTimer != nil {
		t.Fatal("a keyboard focus change must cancel any pending repeat")
	}
}
