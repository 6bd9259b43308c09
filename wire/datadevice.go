package wire

// DndAction mirrors wl_data_device_manager.dnd_action, a bitmask offered by
// a source and chosen by a target.
type DndAction uint32

const (
	DndActionNone DndAction = 0
	DndActionCopy DndAction = 1 << 0
	DndActionMove DndAction = 1 << 1
	DndActionAsk  DndAction = 1 << 2
)

// wl_data_device request opcodes.
const (
	OpDataDeviceStartDrag uint16 = iota
	OpDataDeviceSetSelection
	OpDataDeviceRelease
)

// DataDeviceStartDrag is
// `request start_drag(source: optional id(wl_data_source), origin: id(wl_surface),
// icon: optional id(wl_surface), serial: u32)`.
type DataDeviceStartDrag struct {
	Obj                     ObjectID
	Source, Origin, Icon    ObjectID // Source/Icon are 0 when the client passed null
	Serial                  uint32
}

func DecodeDataDeviceStartDrag(obj ObjectID, r *Reader) DataDeviceStartDrag {
	return DataDeviceStartDrag{Obj: obj, Source: r.ID(), Origin: r.ID(), Icon: r.ID(), Serial: r.U32()}
}

func (m DataDeviceStartDrag) Object() ObjectID { return m.Obj }
func (m DataDeviceStartDrag) Opcode() uint16   { return OpDataDeviceStartDrag }

// DataDeviceSetSelection is
// `request set_selection(source: optional id(wl_data_source), serial: u32)`.
type DataDeviceSetSelection struct {
	Obj    ObjectID
	Source ObjectID
	Serial uint32
}

func DecodeDataDeviceSetSelection(obj ObjectID, r *Reader) DataDeviceSetSelection {
	return DataDeviceSetSelection{Obj: obj, Source: r.ID(), Serial: r.U32()}
}

func (m DataDeviceSetSelection) Object() ObjectID { return m.Obj }
func (m DataDeviceSetSelection) Opcode() uint16   { return OpDataDeviceSetSelection }

// wl_data_device event opcodes.
const (
	OpDataDeviceDataOffer uint16 = iota
	OpDataDeviceEnter
	OpDataDeviceLeave
	OpDataDeviceMotion
	OpDataDeviceDrop
	OpDataDeviceSelection
)

// DataDeviceDataOffer is `event data_offer(id: id(wl_data_offer))`, sent
// before Enter/Selection to introduce the new offer object.
type DataDeviceDataOffer struct{ Id ObjectID }

func (e DataDeviceDataOffer) Encode(w *Writer) uint16 {
	w.ID(e.Id)
	return OpDataDeviceDataOffer
}

// DataDeviceEnter is
// `event enter(serial: u32, surface: id(wl_surface), x,y: fixed, id: optional id(wl_data_offer))`.
type DataDeviceEnter struct {
	Serial  uint32
	Surface ObjectID
	X, Y    Fixed
	Offer   ObjectID
}

func (e DataDeviceEnter) Encode(w *Writer) uint16 {
	w.U32(e.Serial)
	w.ID(e.Surface)
	w.Fixed(e.X)
	w.Fixed(e.Y)
	w.ID(e.Offer)
	return OpDataDeviceEnter
}

// DataDeviceLeave is `event leave()`.
type DataDeviceLeave struct{}

func (e DataDeviceLeave) Encode(w *Writer) uint16 { return OpDataDeviceLeave }

// DataDeviceMotion is `event motion(time: u32, x,y: fixed)`.
type DataDeviceMotion struct {
	Time uint32
	X, Y Fixed
}

func (e DataDeviceMotion) Encode(w *Writer) uint16 {
	w.U32(e.Time)
	w.Fixed(e.X)
	w.Fixed(e.Y)
	return OpDataDeviceMotion
}

// DataDeviceDrop is `event drop()`, sent to the target once the button
// that started the drag is released over an accepting surface.
type DataDeviceDrop struct{}

func (e DataDeviceDrop) Encode(w *Writer) uint16 { return OpDataDeviceDrop }

// DataDeviceSelection is
// `event selection(id: optional id(wl_data_offer))`, broadcast to every
// client holding keyboard focus whenever set_selection changes.
type DataDeviceSelection struct{ Offer ObjectID }

func (e DataDeviceSelection) Encode(w *Writer) uint16 {
	w.ID(e.Offer)
	return OpDataDeviceSelection
}
