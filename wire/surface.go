package wire

// wl_surface request opcodes, in protocol declaration order.
const (
	OpSurfaceDestroy uint16 = iota
	OpSurfaceAttach
	OpSurfaceDamage
	OpSurfaceFrame
	OpSurfaceSetOpaqueRegion
	OpSurfaceSetInputRegion
	OpSurfaceCommit
	OpSurfaceSetBufferTransform
	OpSurfaceSetBufferScale
	OpSurfaceDamageBuffer
	OpSurfaceOffset
)

// SurfaceAttach is `request attach(buffer: id(wl_buffer), x: i32, y: i32)`.
type SurfaceAttach struct {
	Obj    ObjectID
	Buffer ObjectID
	X, Y   int32
}

func DecodeSurfaceAttach(obj ObjectID, r *Reader) SurfaceAttach {
	return SurfaceAttach{Obj: obj, Buffer: r.ID(), X: r.I32(), Y: r.I32()}
}

func (m SurfaceAttach) Object() ObjectID { return m.Obj }
func (m SurfaceAttach) Opcode() uint16   { return OpSurfaceAttach }

// SurfaceDamage is `request damage(x,y,width,height: i32)`, in surface-local
// coordinates.
type SurfaceDamage struct {
	Obj                 ObjectID
	X, Y, Width, Height int32
}

func DecodeSurfaceDamage(obj ObjectID, r *Reader) SurfaceDamage {
	return SurfaceDamage{Obj: obj, X: r.I32(), Y: r.I32(), Width: r.I32(), Height: r.I32()}
}

func (m SurfaceDamage) Object() ObjectID { return m.Obj }
func (m SurfaceDamage) Opcode() uint16   { return OpSurfaceDamage }

// SurfaceDamageBuffer is the buffer-local-coordinate counterpart added at
// `since = 4`, used once the client has a buffer scale/transform applied.
type SurfaceDamageBuffer struct {
	Obj                 ObjectID
	X, Y, Width, Height int32
}

func DecodeSurfaceDamageBuffer(obj ObjectID, r *Reader) SurfaceDamageBuffer {
	return SurfaceDamageBuffer{Obj: obj, X: r.I32(), Y: r.I32(), Width: r.I32(), Height: r.I32()}
}

func (m SurfaceDamageBuffer) Object() ObjectID { return m.Obj }
func (m SurfaceDamageBuffer) Opcode() uint16   { return OpSurfaceDamageBuffer }

// SurfaceFrame is `request frame() -> callback: id(wl_callback)`; the
// caller allocates the new callback object id before decoding.
type SurfaceFrame struct {
	Obj      ObjectID
	Callback ObjectID
}

func DecodeSurfaceFrame(obj, callback ObjectID) SurfaceFrame {
	return SurfaceFrame{Obj: obj, Callback: callback}
}

func (m SurfaceFrame) Object() ObjectID { return m.Obj }
func (m SurfaceFrame) Opcode() uint16   { return OpSurfaceFrame }

// SurfaceCommit is `request commit()`, carrying no fields.
type SurfaceCommit struct{ Obj ObjectID }

func DecodeSurfaceCommit(obj ObjectID) SurfaceCommit { return SurfaceCommit{Obj: obj} }

func (m SurfaceCommit) Object() ObjectID { return m.Obj }
func (m SurfaceCommit) Opcode() uint16   { return OpSurfaceCommit }

// SurfaceSetBufferScale is `request set_buffer_scale(scale: i32)`.
type SurfaceSetBufferScale struct {
	Obj   ObjectID
	Scale int32
}

func DecodeSurfaceSetBufferScale(obj ObjectID, r *Reader) SurfaceSetBufferScale {
	return SurfaceSetBufferScale{Obj: obj, Scale: r.I32()}
}

func (m SurfaceSetBufferScale) Object() ObjectID { return m.Obj }
func (m SurfaceSetBufferScale) Opcode() uint16   { return OpSurfaceSetBufferScale }

// SurfaceSetBufferTransform is `request set_buffer_transform(transform:
// i32)`, one of the wl_output.transform enum values; takes effect on the
// next commit (spec §8 scenario 2).
type SurfaceSetBufferTransform struct {
	Obj       ObjectID
	Transform int32
}

func DecodeSurfaceSetBufferTransform(obj ObjectID, r *Reader) SurfaceSetBufferTransform {
	return SurfaceSetBufferTransform{Obj: obj, Transform: r.I32()}
}

func (m SurfaceSetBufferTransform) Object() ObjectID { return m.Obj }
func (m SurfaceSetBufferTransform) Opcode() uint16   { return OpSurfaceSetBufferTransform }

// wl_surface event opcodes.
const (
	OpSurfaceEnter uint16 = iota
	OpSurfaceLeave
	OpSurfacePreferredBufferScale
	OpSurfacePreferredBufferTransform
)

// SurfaceEnter is `event enter(output: id(wl_output))`.
type SurfaceEnter struct{ Output ObjectID }

func (e SurfaceEnter) Encode(w *Writer) uint16 {
	w.ID(e.Output)
	return OpSurfaceEnter
}

// SurfaceLeave is `event leave(output: id(wl_output))`.
type SurfaceLeave struct{ Output ObjectID }

func (e SurfaceLeave) Encode(w *Writer) uint16 {
	w.ID(e.Output)
	return OpSurfaceLeave
}

// CallbackDone is `event done(callback_data: u32)`, sent on the wl_callback
// object SurfaceFrame allocated, not on the surface itself.
type CallbackDone struct{ Data uint32 }

func (e CallbackDone) Encode(w *Writer) uint16 {
	w.U32(e.Data)
	return 0
}
