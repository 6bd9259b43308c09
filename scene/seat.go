package scene

import "github.com/gocompose/wm/runtime"

// PointerOwnerKind discriminates the pointer-owner state machine's three
// variants (spec §4.7's table), grounded on
// original_source/src/ifs/wl_seat/pointer_owner.rs's
// Default/Grab/Dnd PointerOwner implementations — expressed here as a
// tagged sum rather than trait objects, since the set of states is closed
// and known at compile time (spec §9's dynamic-dispatch guidance).
type PointerOwnerKind int

const (
	PointerDefault PointerOwnerKind = iota
	PointerGrab
	PointerDnd
)

// DataSource is the drag source object offered to a drop target's data
// device, defined at point of use like Surface.
type DataSource interface {
	Finish()
	Cancel()
}

// PointerOwner is the seat's current pointer routing state.
type PointerOwner struct {
	Kind PointerOwnerKind

	// Grab/Dnd: the node latched at the moment the owning button was
	// pressed; all further button events route here regardless of
	// where the pointer moves (spec §4.7 table, scenario 3).
	Latched Node
	// GrabSerial is the serial of the button-press event that created
	// the current grab; StartDrag must be called with this exact serial
	// to transition Grab -> Dnd.
	GrabSerial uint32
	// grabButtons counts the buttons held while in Grab.
	grabButtons int

	// Dnd-only.
	DragButton  uint32
	DragSerial  uint32
	Source      DataSource
	Icon        Node // optional drag icon node, nil if none
	DropTarget  Node // the node currently hit-tested as the dnd target
}

// Shortcut is a configured (modifiers, keysym) binding.
type Shortcut struct {
	Mods   uint32
	Keysym uint32
	Action func()
}

type shortcutKey struct {
	mods   uint32
	keysym uint32
}

// Seat is the shared per-physical-seat state spec §4.7 describes: pointer
// position, pointer-focus stack, keyboard focus, shortcut table, the
// active pointer-owner variant, and a dropped-dnd slot.
type Seat struct {
	Name string

	PointerX, PointerY float64
	// PointerFocusStack holds the node the pointer is currently inside.
	// refocusPointer only ever stores the hit-tested leaf, so it has at
	// most one entry; enclosing nodes are not tracked or sent enter/leave.
	PointerFocusStack []Node

	Owner PointerOwner

	keyboardFocus Node
	keyboardGrab  Node
	pressedKeys   map[uint32]bool
	modifiers     uint32

	shortcuts map[shortcutKey]func()

	// DroppedDnd keeps a just-dropped drag source alive until the
	// target calls Finish, per spec §4.7's DnD section.
	DroppedDnd DataSource

	// RepeatTimer is the pending wl_keyboard key-repeat timer for
	// repeatKeycode, armed by ArmRepeat after a key-press is forwarded to
	// the focused surface. nil when no repeat is pending. Owned here
	// rather than by the input-dispatch layer so a focus change
	// (FocusNode/Grab) or the matching key release can cancel it without
	// the caller having to track it separately.
	RepeatTimer   *runtime.Timer
	repeatKeycode uint32

	nextSerial uint32
}

func NewSeat(name string) *Seat {
	return &Seat{
		Name:        name,
		pressedKeys: map[uint32]bool{},
		shortcuts:   map[shortcutKey]func(){},
	}
}

func (s *Seat) nextSerialID() uint32 {
	s.nextSerial++
	return s.nextSerial
}

// PressedKeys returns the currently pressed keycodes, for the
// keyboard-enter event's initial key set.
func (s *Seat) PressedKeys() []uint32 {
	out := make([]uint32, 0, len(s.pressedKeys))
	for k := range s.pressedKeys {
		out = append(out, k)
	}
	return out
}

// BindShortcut registers a (mods, keysym) -> action binding (spec §4.7,
// scenario 6).
func (s *Seat) BindShortcut(mods, keysym uint32, action func()) {
	s.shortcuts[shortcutKey{mods, keysym}] = action
}

// --- Pointer owner transitions -------------------------------------------

// HitTestAndRoute recomputes the hit-tested node for (x, y) and, per the
// active pointer-owner state, either updates motion at the latched node
// (Grab) or re-resolves focus and delivers motion/dnd-motion to the new
// target (Default, Dnd). Call on every pointer motion event.
func (s *Seat) HitTestAndRoute(g *Graph, x, y float64) {
	s.PointerX, s.PointerY = x, y
	switch s.Owner.Kind {
	case PointerGrab:
		if s.Owner.Latched != nil {
			s.Owner.Latched.PointerMotion(s, x, y)
		}
	case PointerDnd:
		target := g.FindTreeAt(x, y)
		s.updateDndTarget(target)
		if target != nil {
			target.PointerMotion(s, x, y)
		}
	default:
		target := g.FindTreeAt(x, y)
		s.refocusPointer(target)
		if target != nil {
			target.PointerMotion(s, x, y)
		}
	}
}

// refocusPointer sends leave/enter to balance PointerFocusStack against a
// newly hit-tested single-node target, maintaining invariant 1 ("every
// enter is balanced by exactly one leave before a subsequent enter").
func (s *Seat) refocusPointer(target Node) {
	for i := len(s.PointerFocusStack) - 1; i >= 0; i-- {
		n := s.PointerFocusStack[i]
		if target != nil && n.ID() == target.ID() {
			return // already focused; nothing changes
		}
		n.PointerLeave(s, s.nextSerialID())
	}
	s.PointerFocusStack = nil
	if target != nil {
		target.PointerEnter(s, s.nextSerialID())
		s.PointerFocusStack = []Node{target}
	}
}

func (s *Seat) updateDndTarget(target Node) {
	prev := s.Owner.DropTarget
	if prev != nil && (target == nil || prev.ID() != target.ID()) {
		prev.SeatState().SetDndTarget(s, false)
		prev.PointerLeave(s, s.nextSerialID())
	}
	if target != nil && (prev == nil || prev.ID() != target.ID()) {
		target.SeatState().SetDndTarget(s, true)
		target.PointerEnter(s, s.nextSerialID())
	}
	s.Owner.DropTarget = target
}

// Button handles a pointer button event, dispatching per the active
// pointer-owner state (spec §4.7 table).
func (s *Seat) Button(g *Graph, button uint32, pressed bool) {
	switch s.Owner.Kind {
	case PointerDefault:
		if pressed {
			target := g.FindTreeAt(s.PointerX, s.PointerY)
			serial := s.nextSerialID()
			s.Owner = PointerOwner{Kind: PointerGrab, Latched: target, GrabSerial: serial, grabButtons: 1}
			if target != nil {
				target.PointerButton(s, serial, button, true)
			}
		}
		// A release with nothing grabbed is a client/compositor-state
		// mismatch; ignored, matching the Rust default owner's no-op.
	case PointerGrab:
		serial := s.nextSerialID()
		if s.Owner.Latched != nil {
			s.Owner.Latched.PointerButton(s, serial, button, pressed)
		}
		if pressed {
			s.Owner.grabButtons++
		} else if s.Owner.grabButtons--; s.Owner.grabButtons <= 0 {
			s.revertToDefault(g)
		}
	case PointerDnd:
		if !pressed && button == s.Owner.DragButton {
			s.dropOrCancel(g)
		}
	}
}

// revertToDefault returns the pointer owner to Default and re-resolves
// focus against the current position, so a stale latch never survives a
// release (spec §4.7 table: "on all-buttons-released -> Default").
func (s *Seat) revertToDefault(g *Graph) {
	s.Owner = PointerOwner{Kind: PointerDefault}
	target := g.FindTreeAt(s.PointerX, s.PointerY)
	s.refocusPointer(target)
}

// StartDrag transitions Grab -> Dnd if serial matches the currently
// latched grab's serial, per spec §4.7's DnD section; button becomes the
// drag button and is not checked. Returns false outside Grab or if the
// serial doesn't match (request is stale/spoofed), and no transition
// happens.
func (s *Seat) StartDrag(source DataSource, icon Node, button, serial uint32) bool {
	if s.Owner.Kind != PointerGrab || serial != s.Owner.GrabSerial {
		return false
	}
	s.Owner = PointerOwner{
		Kind:       PointerDnd,
		Latched:    s.Owner.Latched,
		DragButton: button,
		DragSerial: serial,
		Source:     source,
		Icon:       icon,
	}
	return true
}

// dropOrCancel resolves a Dnd release: if a drop target is under the
// pointer, keep Source alive in DroppedDnd until Finish; otherwise cancel
// it outright. Either way, transition to Default. Whether the target
// accepted the offer is not checked, and no drop event is sent to the
// target from here.
func (s *Seat) dropOrCancel(g *Graph) {
	target := s.Owner.DropTarget
	if target != nil {
		s.DroppedDnd = s.Owner.Source
	} else if s.Owner.Source != nil {
		s.Owner.Source.Cancel()
	}
	if s.Owner.Icon != nil {
		s.Owner.Icon = nil
	}
	s.updateDndTarget(nil)
	s.Owner = PointerOwner{Kind: PointerDefault}
	retarget := g.FindTreeAt(s.PointerX, s.PointerY)
	s.refocusPointer(retarget)
}

// CancelDnd aborts an in-progress drag without a drop (e.g. Escape key).
func (s *Seat) CancelDnd(g *Graph) {
	if s.Owner.Kind != PointerDnd {
		return
	}
	if s.Owner.Source != nil {
		s.Owner.Source.Cancel()
	}
	s.updateDndTarget(nil)
	s.Owner = PointerOwner{Kind: PointerDefault}
	retarget := g.FindTreeAt(s.PointerX, s.PointerY)
	s.refocusPointer(retarget)
}

// Axis delivers a scroll/axis event to whichever node the active pointer
// owner says should receive it (Default/Grab route to the hit-tested or
// latched node; Dnd ignores axis events, matching the Rust DndPointerOwner
// which returns no axis_node).
func (s *Seat) Axis(g *Graph, horiz, vert float64) {
	var target Node
	switch s.Owner.Kind {
	case PointerGrab:
		target = s.Owner.Latched
	case PointerDefault:
		target = g.FindTreeAt(s.PointerX, s.PointerY)
	}
	if target != nil {
		target.PointerAxis(s, horiz, vert)
	}
}

// --- Keyboard -------------------------------------------------------------

// FocusNode moves keyboard focus: leave to the old node's surface, enter
// to the new, then a synthetic modifiers update (spec §4.7).
func (s *Seat) FocusNode(n Node) {
	if s.keyboardFocus != nil && (n == nil || s.keyboardFocus.ID() != n.ID()) {
		s.keyboardFocus.KeyboardLeave(s, s.nextSerialID())
		s.CancelRepeat()
	}
	s.keyboardFocus = n
	if n != nil {
		n.KeyboardEnter(s, s.nextSerialID())
		n.Modifiers(s, s.nextSerialID(), s.modifiers, 0, 0, 0)
	}
}

// Grab latches keyboard focus on n until Ungrab (spec §4.7:
// "grab(n) latches focus until ungrab()").
func (s *Seat) Grab(n Node) {
	s.keyboardGrab = n
	s.FocusNode(n)
}

func (s *Seat) Ungrab() { s.keyboardGrab = nil }

// Key handles a key event: updates the pressed-keys set, checks the
// shortcut table on press, and otherwise forwards to the focused surface
// (spec §4.7's Keyboard section). inputLocked suppresses forwarding (e.g.
// session lock) without suppressing shortcut dispatch. The shortcut lookup
// uses keycode itself as the keysym; no keymap translation is done.
func (s *Seat) Key(keycode uint32, pressed bool, inputLocked bool) {
	if pressed {
		s.pressedKeys[keycode] = true
		if action, ok := s.shortcuts[shortcutKey{s.modifiers, keycode}]; ok {
			action()
			return // consumed: the focused surface gets neither key nor modifiers
		}
	} else {
		delete(s.pressedKeys, keycode)
		if keycode == s.repeatKeycode {
			s.CancelRepeat()
		}
	}
	if inputLocked {
		return
	}
	target := s.keyboardGrab
	if target == nil {
		target = s.keyboardFocus
	}
	if target != nil {
		target.Key(s, s.nextSerialID(), keycode, pressed)
	}
}

// ArmRepeat records timer as the pending key-repeat for keycode, cancelling
// whatever repeat timer was previously pending — wl_keyboard.repeat_info's
// "delay restarts on every fresh keypress" behavior. The caller (the input
// dispatch layer, which alone holds the runtime.Loop key repeat schedules
// against) builds timer with loop.AfterFunc and calls this after Key
// forwards a press.
func (s *Seat) ArmRepeat(keycode uint32, timer *runtime.Timer) {
	s.CancelRepeat()
	s.repeatKeycode = keycode
	s.RepeatTimer = timer
}

// CancelRepeat stops and clears the pending key-repeat timer, if any.
func (s *Seat) CancelRepeat() {
	if s.RepeatTimer != nil {
		s.RepeatTimer.Cancel()
		s.RepeatTimer = nil
	}
}

// SetModifiers updates the effective modifier mask used for shortcut
// lookups and forwards a modifiers event to the focused surface.
func (s *Seat) SetModifiers(depressed, latched, locked, group uint32) {
	s.modifiers = depressed | latched
	target := s.keyboardGrab
	if target == nil {
		target = s.keyboardFocus
	}
	if target != nil {
		target.Modifiers(s, s.nextSerialID(), depressed, latched, locked, group)
	}
}
