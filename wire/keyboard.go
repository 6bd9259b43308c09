package wire

// KeyState mirrors wl_keyboard.key_state.
type KeyState uint32

const (
	KeyReleased KeyState = 0
	KeyPressed  KeyState = 1
)

// KeymapFormat mirrors wl_keyboard.keymap_format.
type KeymapFormat uint32

const KeymapFormatXkbV1 KeymapFormat = 1

// wl_keyboard event opcodes.
const (
	OpKeyboardKeymap uint16 = iota
	OpKeyboardEnter
	OpKeyboardLeave
	OpKeyboardKey
	OpKeyboardModifiers
	OpKeyboardRepeatInfo
)

// KeyboardKeymap is `event keymap(format: u32, fd: fd, size: u32)`, sent
// once per keyboard object right after binding.
type KeyboardKeymap struct {
	Format KeymapFormat
	Fd     int
	Size   uint32
}

func (e KeyboardKeymap) Encode(w *Writer) uint16 {
	w.U32(uint32(e.Format))
	w.Fd(e.Fd)
	w.U32(e.Size)
	return OpKeyboardKeymap
}

// KeyboardEnter is `event enter(serial: u32, surface: id(wl_surface), keys: array(u32))`.
type KeyboardEnter struct {
	Serial  uint32
	Surface ObjectID
	Keys    []uint32
}

func (e KeyboardEnter) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.ID(e.Surface)
	w.Array(e.Keys)
	return OpKeyboardEnter
}

// KeyboardLeave is `event leave(serial: u32, surface: id(wl_surface))`.
type KeyboardLeave struct {
	Serial  uint32
	Surface ObjectID
}

func (e KeyboardLeave) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.ID(e.Surface)
	return OpKeyboardLeave
}

// KeyboardKey is `event key(serial,time,key: u32, state: u32)`.
type KeyboardKey struct {
	Serial, Time, Key uint32
	State             KeyState
}

func (e KeyboardKey) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.U32(e.Time)
	w.U32(e.Key)
	w.U32(uint32(e.State))
	return OpKeyboardKey
}

// KeyboardModifiers is
// `event modifiers(serial,mods_depressed,mods_latched,mods_locked,group: u32)`.
type KeyboardModifiers struct {
	Serial                                     uint32
	ModsDepressed, ModsLatched, ModsLocked, Group uint32
}

func (e KeyboardModifiers) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.U32(e.ModsDepressed)
	w.U32(e.ModsLatched)
	w.U32(e.ModsLocked)
	w.U32(e.Group)
	return OpKeyboardModifiers
}

// wl_keyboard carries only a single destructor request.
const OpKeyboardRelease uint16 = 0

// KeyboardRelease is `request release()`.
type KeyboardRelease struct{ Obj ObjectID }

func (m KeyboardRelease) Object() ObjectID { return m.Obj }
func (m KeyboardRelease) Opcode() uint16   { return OpKeyboardRelease }
