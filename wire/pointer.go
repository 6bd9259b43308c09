package wire

// ButtonState mirrors wl_pointer.button_state.
type ButtonState uint32

const (
	ButtonReleased ButtonState = 0
	ButtonPressed  ButtonState = 1
)

// AxisSource mirrors wl_pointer.axis_source.
type AxisSource uint32

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// Axis mirrors wl_pointer.axis (which scroll direction).
type Axis uint32

const (
	AxisVerticalScroll Axis = iota
	AxisHorizontalScroll
)

// wl_pointer event opcodes.
const (
	OpPointerEnter uint16 = iota
	OpPointerLeave
	OpPointerMotion
	OpPointerButton
	OpPointerAxis
	OpPointerFrame
	OpPointerAxisSource
	OpPointerAxisStop
	OpPointerAxisDiscrete
	OpPointerAxisValue120
	OpPointerAxisRelativeDirection
)

// PointerEnter is `event enter(serial: u32, surface: id(wl_surface), x,y: fixed)`.
type PointerEnter struct {
	Serial       uint32
	Surface      ObjectID
	SurfaceX, SurfaceY Fixed
}

func (e PointerEnter) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.ID(e.Surface)
	w.Fixed(e.SurfaceX)
	w.Fixed(e.SurfaceY)
	return OpPointerEnter
}

// PointerLeave is `event leave(serial: u32, surface: id(wl_surface))`.
type PointerLeave struct {
	Serial  uint32
	Surface ObjectID
}

func (e PointerLeave) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.ID(e.Surface)
	return OpPointerLeave
}

// PointerMotion is `event motion(time: u32, x,y: fixed)`.
type PointerMotion struct {
	Time   uint32
	X, Y   Fixed
}

func (e PointerMotion) Encode(w *Writer) uint16 {
	w.U32(e.Time)
	w.Fixed(e.X)
	w.Fixed(e.Y)
	return OpPointerMotion
}

// PointerButton is `event button(serial,time,button: u32, state: u32)`.
type PointerButton struct {
	Serial, Time, Button uint32
	State                ButtonState
}

func (e PointerButton) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.U32(e.Time)
	w.U32(e.Button)
	w.U32(uint32(e.State))
	return OpPointerButton
}

// PointerAxis is `event axis(time: u32, axis: u32, value: fixed)`.
type PointerAxis struct {
	Time  uint32
	Axis  Axis
	Value Fixed
}

func (e PointerAxis) Encode(w *Writer) uint16 {
	w.U32(e.Time)
	w.U32(uint32(e.Axis))
	w.Fixed(e.Value)
	return OpPointerAxis
}

// PointerAxisSource is `event axis_source(axis_source: u32)`.
type PointerAxisSource struct{ Source AxisSource }

func (e PointerAxisSource) Encode(w *Writer) uint16 {
	w.U32(uint32(e.Source))
	return OpPointerAxisSource
}

// PointerAxisStop is `event axis_stop(time: u32, axis: u32)`.
type PointerAxisStop struct {
	Time uint32
	Axis Axis
}

func (e PointerAxisStop) Encode(w *Writer) uint16 {
	w.U32(e.Time)
	w.U32(uint32(e.Axis))
	return OpPointerAxisStop
}

// PointerFrame is `event frame()`, terminating a batch of the above.
type PointerFrame struct{}

func (e PointerFrame) Encode(w *Writer) uint16 { return OpPointerFrame }

// wl_pointer request opcodes.
const (
	OpPointerSetCursor uint16 = iota
	OpPointerRelease
)

// PointerSetCursor is
// `request set_cursor(serial: u32, surface: optional id(wl_surface), hotspot_x,hotspot_y: i32)`.
type PointerSetCursor struct {
	Obj                    ObjectID
	Serial                 uint32
	Surface                ObjectID // 0 if the client set a null surface (hide cursor)
	HotspotX, HotspotY     int32
}

func DecodePointerSetCursor(obj ObjectID, r *Reader) PointerSetCursor {
	return PointerSetCursor{Obj: obj, Serial: r.U32(), Surface: r.ID(), HotspotX: r.I32(), HotspotY: r.I32()}
}

func (m PointerSetCursor) Object() ObjectID { return m.Obj }
func (m PointerSetCursor) Opcode() uint16   { return OpPointerSetCursor }
