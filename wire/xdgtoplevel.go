package wire

// XdgToplevelState mirrors xdg_toplevel.state, sent packed as an array(u32)
// in the configure event.
type XdgToplevelState uint32

const (
	XdgToplevelStateMaximized XdgToplevelState = iota + 1
	XdgToplevelStateFullscreen
	XdgToplevelStateResizing
	XdgToplevelStateActivated
	XdgToplevelStateTiledLeft
	XdgToplevelStateTiledRight
	XdgToplevelStateTiledTop
	XdgToplevelStateTiledBottom
)

// xdg_surface request opcodes.
const (
	OpXdgSurfaceDestroy uint16 = iota
	OpXdgSurfaceGetToplevel
	OpXdgSurfaceGetPopup
	OpXdgSurfaceSetWindowGeometry
	OpXdgSurfaceAckConfigure
)

// XdgSurfaceGetToplevel is `request get_toplevel() -> id(xdg_toplevel)`.
type XdgSurfaceGetToplevel struct {
	Obj ObjectID
	Id  ObjectID
}

func (m XdgSurfaceGetToplevel) Object() ObjectID { return m.Obj }
func (m XdgSurfaceGetToplevel) Opcode() uint16   { return OpXdgSurfaceGetToplevel }

// XdgSurfaceSetWindowGeometry is
// `request set_window_geometry(x,y,width,height: i32)`.
type XdgSurfaceSetWindowGeometry struct {
	Obj                 ObjectID
	X, Y, Width, Height int32
}

func DecodeXdgSurfaceSetWindowGeometry(obj ObjectID, r *Reader) XdgSurfaceSetWindowGeometry {
	return XdgSurfaceSetWindowGeometry{Obj: obj, X: r.I32(), Y: r.I32(), Width: r.I32(), Height: r.I32()}
}

func (m XdgSurfaceSetWindowGeometry) Object() ObjectID { return m.Obj }
func (m XdgSurfaceSetWindowGeometry) Opcode() uint16   { return OpXdgSurfaceSetWindowGeometry }

// XdgSurfaceAckConfigure is `request ack_configure(serial: u32)`.
type XdgSurfaceAckConfigure struct {
	Obj    ObjectID
	Serial uint32
}

func DecodeXdgSurfaceAckConfigure(obj ObjectID, r *Reader) XdgSurfaceAckConfigure {
	return XdgSurfaceAckConfigure{Obj: obj, Serial: r.U32()}
}

func (m XdgSurfaceAckConfigure) Object() ObjectID { return m.Obj }
func (m XdgSurfaceAckConfigure) Opcode() uint16   { return OpXdgSurfaceAckConfigure }

// xdg_surface event opcodes.
const OpXdgSurfaceConfigure uint16 = 0

// XdgSurfaceConfigure is `event configure(serial: u32)`.
type XdgSurfaceConfigure struct{ Serial uint32 }

func (e XdgSurfaceConfigure) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	return OpXdgSurfaceConfigure
}

// xdg_toplevel request opcodes, destroy through set_minimized; message
// types and decoders below exist only for the subset whose fields the
// compositor core reads.
const (
	OpXdgToplevelDestroy uint16 = iota
	OpXdgToplevelSetParent
	OpXdgToplevelSetTitle
	OpXdgToplevelSetAppId
	OpXdgToplevelShowWindowMenu
	OpXdgToplevelMove
	OpXdgToplevelResize
	OpXdgToplevelSetMaxSize
	OpXdgToplevelSetMinSize
	OpXdgToplevelSetMaximized
	OpXdgToplevelUnsetMaximized
	OpXdgToplevelSetFullscreen
	OpXdgToplevelUnsetFullscreen
	OpXdgToplevelSetMinimized
)

// XdgToplevelSetTitle is `request set_title(title: str)`.
type XdgToplevelSetTitle struct {
	Obj   ObjectID
	Title string
}

func DecodeXdgToplevelSetTitle(obj ObjectID, r *Reader) XdgToplevelSetTitle {
	return XdgToplevelSetTitle{Obj: obj, Title: r.Str()}
}

func (m XdgToplevelSetTitle) Object() ObjectID { return m.Obj }
func (m XdgToplevelSetTitle) Opcode() uint16   { return OpXdgToplevelSetTitle }

// XdgToplevelSetAppId is `request set_app_id(app_id: str)`.
type XdgToplevelSetAppId struct {
	Obj   ObjectID
	AppId string
}

func DecodeXdgToplevelSetAppId(obj ObjectID, r *Reader) XdgToplevelSetAppId {
	return XdgToplevelSetAppId{Obj: obj, AppId: r.Str()}
}

func (m XdgToplevelSetAppId) Object() ObjectID { return m.Obj }
func (m XdgToplevelSetAppId) Opcode() uint16   { return OpXdgToplevelSetAppId }

// XdgToplevelSetMaxSize is `request set_max_size(width,height: i32)`.
type XdgToplevelSetMaxSize struct {
	Obj           ObjectID
	Width, Height int32
}

func DecodeXdgToplevelSetMaxSize(obj ObjectID, r *Reader) XdgToplevelSetMaxSize {
	return XdgToplevelSetMaxSize{Obj: obj, Width: r.I32(), Height: r.I32()}
}

func (m XdgToplevelSetMaxSize) Object() ObjectID { return m.Obj }
func (m XdgToplevelSetMaxSize) Opcode() uint16   { return OpXdgToplevelSetMaxSize }

// XdgToplevelSetMinSize is `request set_min_size(width,height: i32)`.
type XdgToplevelSetMinSize struct {
	Obj           ObjectID
	Width, Height int32
}

func DecodeXdgToplevelSetMinSize(obj ObjectID, r *Reader) XdgToplevelSetMinSize {
	return XdgToplevelSetMinSize{Obj: obj, Width: r.I32(), Height: r.I32()}
}

func (m XdgToplevelSetMinSize) Object() ObjectID { return m.Obj }
func (m XdgToplevelSetMinSize) Opcode() uint16   { return OpXdgToplevelSetMinSize }

// xdg_toplevel event opcodes.
const (
	OpXdgToplevelConfigure uint16 = iota
	OpXdgToplevelClose
	OpXdgToplevelConfigureBounds
	OpXdgToplevelWmCapabilities
)

// XdgToplevelConfigure is
// `event configure(width,height: i32, states: array(u32))`.
type XdgToplevelConfigure struct {
	Width, Height int32
	States        []XdgToplevelState
}

func (e XdgToplevelConfigure) Encode(w *Writer) uint16 {
	w.I32(e.Width)
	w.I32(e.Height)
	raw := make([]uint32, len(e.States))
	for i, s := range e.States {
		raw[i] = uint32(s)
	}
	w.Array(raw)
	return OpXdgToplevelConfigure
}

// XdgToplevelClose is `event close()`.
type XdgToplevelClose struct{}

func (e XdgToplevelClose) Encode(w *Writer) uint16 { return OpXdgToplevelClose }
