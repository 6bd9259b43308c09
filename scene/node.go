// Package scene implements the node tree and per-seat input-routing state
// machine: pointer ownership (default/grab/dnd), keyboard focus, and the
// find-tree-at traversal that resolves (x, y) to a node.
package scene

// NodeID identifies a node in the graph. The zero value, NilNode, never
// identifies a real node. Grounded on gviegas-neo3/node's dense-index
// identity scheme (arena slot, reused on removal), simplified here because
// the scene graph is never shared across threads (spec §5) and so needs
// no allocator mutex — a single monotonic counter in Graph (tree.go) hands
// out IDs.
type NodeID uint32

const NilNode NodeID = 0

// Kind discriminates the node variants spec §4.7 names.
type Kind int

const (
	KindOutput Kind = iota
	KindWorkspace
	KindContainer
	KindFloat
	KindToplevel
	KindLayerSurface
)

func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "output"
	case KindWorkspace:
		return "workspace"
	case KindContainer:
		return "container"
	case KindFloat:
		return "float"
	case KindToplevel:
		return "toplevel"
	case KindLayerSurface:
		return "layer-surface"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle in absolute, sub-pixel output space.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) falls within r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Surface is the wire-protocol object a leaf node (Toplevel, LayerSurface)
// forwards input events to. Defined here, at the point of use, rather than
// imported from wire — wire's concrete surface type satisfies this
// structurally, keeping scene independent of the wire codec.
type Surface interface {
	SendPointerEnter(serial uint32, x, y float64)
	SendPointerLeave(serial uint32)
	SendPointerMotion(x, y float64)
	SendPointerButton(serial uint32, button uint32, pressed bool)
	SendPointerAxis(horiz, vert float64)
	SendKeyboardEnter(serial uint32, keys []uint32)
	SendKeyboardLeave(serial uint32)
	SendKey(serial uint32, keycode uint32, pressed bool)
	SendModifiers(serial uint32, depressed, latched, locked, group uint32)
}

// NodeSeatState tracks, per seat, whether a node currently holds that
// seat's pointer focus, keyboard focus, or dnd-target — the bookkeeping
// invariants 1 and 2 are checked against.
type NodeSeatState struct {
	pointerFocus  map[*Seat]bool
	keyboardFocus map[*Seat]bool
	dndTarget     map[*Seat]bool
}

func newNodeSeatState() *NodeSeatState {
	return &NodeSeatState{
		pointerFocus:  map[*Seat]bool{},
		keyboardFocus: map[*Seat]bool{},
		dndTarget:     map[*Seat]bool{},
	}
}

func (s *NodeSeatState) SetPointerFocus(seat *Seat, v bool)  { setFlag(s.pointerFocus, seat, v) }
func (s *NodeSeatState) IsPointerFocus(seat *Seat) bool      { return s.pointerFocus[seat] }
func (s *NodeSeatState) SetKeyboardFocus(seat *Seat, v bool) { setFlag(s.keyboardFocus, seat, v) }
func (s *NodeSeatState) IsKeyboardFocus(seat *Seat) bool     { return s.keyboardFocus[seat] }
func (s *NodeSeatState) SetDndTarget(seat *Seat, v bool)     { setFlag(s.dndTarget, seat, v) }
func (s *NodeSeatState) IsDndTarget(seat *Seat) bool         { return s.dndTarget[seat] }

func setFlag(m map[*Seat]bool, seat *Seat, v bool) {
	if v {
		m[seat] = true
	} else {
		delete(m, seat)
	}
}

// Node is the capability interface every scene-graph member implements.
// Concrete variants embed nodeBase and override only the methods their
// kind actually needs — aggregate nodes (Output, Workspace, Container)
// never hold a Surface and so fall through to nodeBase's no-op input
// handlers, mirroring the way gviegas-neo3/node.Interface keeps the graph
// generic over heterogeneous payloads.
type Node interface {
	ID() NodeID
	Kind() Kind
	Parent() Node
	// Children returns this node's descendants in the order find-tree-at
	// should test them, front (topmost) first.
	Children() []Node
	Bounds() Rect
	SeatState() *NodeSeatState
	// Surface returns the wire object this node forwards input to, or nil
	// for aggregate nodes with no surface of their own.
	Surface() Surface

	PointerMotion(seat *Seat, x, y float64)
	PointerButton(seat *Seat, serial uint32, button uint32, pressed bool)
	PointerAxis(seat *Seat, horiz, vert float64)
	PointerEnter(seat *Seat, serial uint32)
	PointerLeave(seat *Seat, serial uint32)
	KeyboardEnter(seat *Seat, serial uint32)
	KeyboardLeave(seat *Seat, serial uint32)
	Key(seat *Seat, serial uint32, keycode uint32, pressed bool)
	Modifiers(seat *Seat, serial uint32, depressed, latched, locked, group uint32)
}

// nodeBase provides identity and no-op input handlers every variant
// inherits; each concrete type supplies its own Children()/Parent().
type nodeBase struct {
	id     NodeID
	kind   Kind
	bounds Rect
	seat   *NodeSeatState
}

func newNodeBase(id NodeID, kind Kind, bounds Rect) nodeBase {
	return nodeBase{id: id, kind: kind, bounds: bounds, seat: newNodeSeatState()}
}

func (n *nodeBase) ID() NodeID               { return n.id }
func (n *nodeBase) Kind() Kind                { return n.kind }
func (n *nodeBase) Bounds() Rect              { return n.bounds }
func (n *nodeBase) SeatState() *NodeSeatState { return n.seat }
func (n *nodeBase) Surface() Surface          { return nil }

func (n *nodeBase) PointerMotion(seat *Seat, x, y float64)                                      {}
func (n *nodeBase) PointerButton(seat *Seat, serial uint32, button uint32, pressed bool)         {}
func (n *nodeBase) PointerAxis(seat *Seat, horiz, vert float64)                                  {}
func (n *nodeBase) PointerEnter(seat *Seat, serial uint32)                                       {}
func (n *nodeBase) PointerLeave(seat *Seat, serial uint32)                                       {}
func (n *nodeBase) KeyboardEnter(seat *Seat, serial uint32)                                      {}
func (n *nodeBase) KeyboardLeave(seat *Seat, serial uint32)                                      {}
func (n *nodeBase) Key(seat *Seat, serial uint32, keycode uint32, pressed bool)                  {}
func (n *nodeBase) Modifiers(seat *Seat, serial uint32, depressed, latched, locked, group uint32) {}

// OutputTransform mirrors the wl_output.transform enum: the rotation/flip
// applied between the physical panel and the logical layout space this
// output's children are positioned in.
type OutputTransform int

const (
	OutputTransformNormal OutputTransform = iota
	OutputTransform90
	OutputTransform180
	OutputTransform270
	OutputTransformFlipped
	OutputTransformFlipped90
	OutputTransformFlipped180
	OutputTransformFlipped270
)

// Output roots one monitor's sub-tree. Children returns them in exactly
// the order spec §4.7's find_tree_at tests: lock surface (if the session
// is locked) ≻ overlay/top layer-shell ≻ the active workspace ≻
// bottom/background layer-shell. Stacked toplevels belong to the
// workspace, not the output, per spec.
type Output struct {
	nodeBase
	parent      Node
	LockSurface Node // non-nil only while the session is locked
	Overlay     []Node
	Active      *Workspace
	Background  []Node

	// Scale is the output's wl_output.scale factor; client buffer sizes
	// are divided by it to get surface-local logical size.
	Scale float64
	// Transform is the output's own rotation, applied on top of whatever
	// buffer_transform an individual surface's commit carries.
	Transform OutputTransform
	// GlobalX/GlobalY position this output within the compositor-wide
	// layout space multiple outputs share (wl_output.geometry's x, y);
	// Bounds() stays output-local, matching every other node's frame.
	GlobalX, GlobalY float64
}

func NewOutput(id NodeID, bounds Rect) *Output {
	return &Output{nodeBase: newNodeBase(id, KindOutput, bounds), Scale: 1}
}

func (n *Output) Parent() Node { return n.parent }

func (n *Output) Children() []Node {
	var out []Node
	if n.LockSurface != nil {
		out = append(out, n.LockSurface)
	}
	out = append(out, n.Overlay...)
	if n.Active != nil {
		out = append(out, n.Active)
	}
	out = append(out, n.Background...)
	return out
}

// Workspace is one of potentially many virtual desktops on an Output.
// Children returns the stacked nodes (floats, popups, fullscreen
// toplevels, front-to-back) before the tiling root, matching spec §4.7's
// "stacked toplevels ≻ workspace [tiling tree]" ordering.
type Workspace struct {
	nodeBase
	parent  Node
	Stacked []Node
	Root    *Container
}

func NewWorkspace(id NodeID, bounds Rect) *Workspace {
	return &Workspace{nodeBase: newNodeBase(id, KindWorkspace, bounds)}
}

func (n *Workspace) Parent() Node { return n.parent }

func (n *Workspace) Children() []Node {
	out := append([]Node{}, n.Stacked...)
	if n.Root != nil {
		out = append(out, n.Root)
	}
	return out
}

// SplitAxis discriminates a Container's tiling layout.
type SplitAxis int

const (
	AxisMono SplitAxis = iota
	AxisHorizontal
	AxisVertical
)

// Container is a tiling node: mono (one visible child at a time) or split
// along an axis.
type Container struct {
	nodeBase
	parent   Node
	Axis     SplitAxis
	Elements []Node
}

func NewContainer(id NodeID, bounds Rect, axis SplitAxis) *Container {
	return &Container{nodeBase: newNodeBase(id, KindContainer, bounds), Axis: axis}
}

func (n *Container) Parent() Node     { return n.parent }
func (n *Container) Children() []Node { return n.Elements }

func (n *Container) AddChild(child Node) {
	n.Elements = append(n.Elements, child)
	setParent(child, n)
}

// ResizeEdge is a bitmask of the border edges a point hit inside a Float's
// resize margin, combined for the four corner regions.
type ResizeEdge int

const (
	EdgeNone   ResizeEdge = 0
	EdgeLeft   ResizeEdge = 1 << 0
	EdgeRight  ResizeEdge = 1 << 1
	EdgeTop    ResizeEdge = 1 << 2
	EdgeBottom ResizeEdge = 1 << 3
)

// defaultBorderWidth is how wide a Float's resize margin is, in the same
// sub-pixel output units as Rect, grounded on float.rs's bw (border width)
// hit margin.
const defaultBorderWidth = 8.0

// Float is a free-standing window with a title bar and resize edges.
type Float struct {
	nodeBase
	parent         Node
	TitleBarHeight float64
	BorderWidth    float64
	Content        Node
}

func NewFloat(id NodeID, bounds Rect, titleBarHeight float64) *Float {
	return &Float{
		nodeBase:       newNodeBase(id, KindFloat, bounds),
		TitleBarHeight: titleBarHeight,
		BorderWidth:    defaultBorderWidth,
	}
}

// HitEdge resolves a point in Float-local coordinates (0,0 at the float's
// own top-left) to the resize-edge region it falls in, or EdgeNone if it is
// over the interior/title bar. Grounded on float.rs's resize_left/right/
// top/bottom bw-margin test and its 16-entry edge-combination table: a
// point within BorderWidth of two adjacent sides hits the corner combining
// both; opposite-side combinations (e.g. left+right, impossible for a
// window wider than 2*BorderWidth) and any case float.rs's table maps to a
// Move fall back to EdgeNone.
func (n *Float) HitEdge(x, y float64) ResizeEdge {
	bw := n.BorderWidth
	w, h := n.bounds.W, n.bounds.H
	var e ResizeEdge
	if x < bw {
		e |= EdgeLeft
	}
	if x >= w-bw {
		e |= EdgeRight
	}
	if y < bw {
		e |= EdgeTop
	}
	if y >= h-bw {
		e |= EdgeBottom
	}
	if e&(EdgeLeft|EdgeRight) == EdgeLeft|EdgeRight || e&(EdgeTop|EdgeBottom) == EdgeTop|EdgeBottom {
		return EdgeNone
	}
	return e
}

func (n *Float) Parent() Node { return n.parent }

func (n *Float) Children() []Node {
	if n.Content == nil {
		return nil
	}
	return []Node{n.Content}
}

func (n *Float) SetContent(child Node) {
	n.Content = child
	setParent(child, n)
}

// setParent assigns n's parent link; only the concrete types that track
// one need handling (leaves have no children, so their parent is set once
// by whatever container adopts them).
func setParent(n Node, parent Node) {
	switch x := n.(type) {
	case *Output:
		x.parent = parent
	case *Workspace:
		x.parent = parent
	case *Container:
		x.parent = parent
	case *Float:
		x.parent = parent
	case *Toplevel:
		x.parent = parent
	case *LayerSurface:
		x.parent = parent
	}
}

// Toplevel is a leaf node holding a client surface (xdg_toplevel-shaped).
type Toplevel struct {
	nodeBase
	parent Node
	surf   Surface
}

func NewToplevel(id NodeID, bounds Rect, surf Surface) *Toplevel {
	return &Toplevel{nodeBase: newNodeBase(id, KindToplevel, bounds), surf: surf}
}

func (n *Toplevel) Parent() Node     { return n.parent }
func (n *Toplevel) Children() []Node { return nil }
func (n *Toplevel) Surface() Surface { return n.surf }

func (n *Toplevel) PointerMotion(seat *Seat, x, y float64) {
	if n.surf != nil {
		n.surf.SendPointerMotion(x-n.bounds.X, y-n.bounds.Y)
	}
}

func (n *Toplevel) PointerButton(seat *Seat, serial uint32, button uint32, pressed bool) {
	if n.surf != nil {
		n.surf.SendPointerButton(serial, button, pressed)
	}
}

func (n *Toplevel) PointerAxis(seat *Seat, horiz, vert float64) {
	if n.surf != nil {
		n.surf.SendPointerAxis(horiz, vert)
	}
}

func (n *Toplevel) PointerEnter(seat *Seat, serial uint32) {
	n.seat.SetPointerFocus(seat, true)
	if n.surf != nil {
		n.surf.SendPointerEnter(serial, seat.PointerX-n.bounds.X, seat.PointerY-n.bounds.Y)
	}
}

func (n *Toplevel) PointerLeave(seat *Seat, serial uint32) {
	n.seat.SetPointerFocus(seat, false)
	if n.surf != nil {
		n.surf.SendPointerLeave(serial)
	}
}

func (n *Toplevel) KeyboardEnter(seat *Seat, serial uint32) {
	n.seat.SetKeyboardFocus(seat, true)
	if n.surf != nil {
		n.surf.SendKeyboardEnter(serial, seat.PressedKeys())
	}
}

func (n *Toplevel) KeyboardLeave(seat *Seat, serial uint32) {
	n.seat.SetKeyboardFocus(seat, false)
	if n.surf != nil {
		n.surf.SendKeyboardLeave(serial)
	}
}

func (n *Toplevel) Key(seat *Seat, serial uint32, keycode uint32, pressed bool) {
	if n.surf != nil {
		n.surf.SendKey(serial, keycode, pressed)
	}
}

func (n *Toplevel) Modifiers(seat *Seat, serial uint32, depressed, latched, locked, group uint32) {
	if n.surf != nil {
		n.surf.SendModifiers(serial, depressed, latched, locked, group)
	}
}

// LayerSurface is a wlr-layer-shell leaf on an Output (panels, backgrounds,
// lock screens). Input forwarding is identical to Toplevel's; it is a
// distinct type only so Kind() and callers' type switches can tell the two
// apart.
type LayerSurface struct {
	Toplevel
}

func NewLayerSurface(id NodeID, bounds Rect, surf Surface) *LayerSurface {
	base := newNodeBase(id, KindLayerSurface, bounds)
	return &LayerSurface{Toplevel: Toplevel{nodeBase: base, surf: surf}}
}
