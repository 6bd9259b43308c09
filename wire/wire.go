// Package wire implements the Wayland wire protocol codec: a length-prefixed
// binary framing with an out-of-band SCM_RIGHTS fd channel, plus a small
// hand-written set of concrete request/event message types for the globals
// the compositor core actually needs (wl_surface, wl_seat, wl_pointer,
// wl_keyboard, wl_data_device, and an xdg_toplevel-shaped role). It is not a
// protocol-definition-language generator; the field-type grammar it mirrors
// (u32/i32/u64/u64_rev/str/optstr/bstr/fixed/fd/id/array/pod) exists only to
// keep the marshalling code here traceable to that grammar, not to parse it.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ObjectID identifies a protocol object within one connection's namespace.
type ObjectID uint32

// header is the 8-byte prefix every message carries: target object, opcode
// in the low 16 bits of the second word, total message length (including
// this header) in the high 16 bits.
type header struct {
	Object ObjectID
	Opcode uint16
	Size   uint16
}

const headerLen = 8

var (
	ErrShortMessage = errors.New("wire: message shorter than header")
	ErrTruncated    = errors.New("wire: message body shorter than declared size")
	ErrBadString    = errors.New("wire: string field missing nul terminator or misaligned")
)

// Fixed is a 24.8 signed fixed-point number, wl_fixed_t's representation.
type Fixed int32

func FixedFromFloat64(f float64) Fixed { return Fixed(int32(math.Round(f * 256))) }
func (f Fixed) Float64() float64       { return float64(f) / 256 }

// Reader decodes fields out of one message body, advancing an internal
// cursor. Each 32-bit word is little-endian; a u64 spans two words, most
// significant word first (u64_rev reverses that). On a short read a decode
// method records the first error, returned by Reader.Err, and yields zero
// values from then on, the same "decode eagerly, check once at the end"
// shape dominikh-go-libwayland's dispatcher uses for its per-argument switch.
type Reader struct {
	buf []byte
	pos int
	fds []int
	err error
}

func NewReader(buf []byte, fds []int) *Reader {
	return &Reader{buf: buf, fds: fds}
}

func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.buf) {
		r.fail(ErrTruncated)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) I32() int32 { return int32(r.U32()) }

func (r *Reader) U64() uint64 {
	hi := r.U32()
	lo := r.U32()
	return uint64(hi)<<32 | uint64(lo)
}

// U64Rev reads a 64-bit value stored as two little-endian u32 halves in
// reversed word order (low half first), the wire format's "u64_rev" type
// used where a value must stay bit-compatible with a 32-bit-word-oriented
// reader that predates native 64-bit fields.
func (r *Reader) U64Rev() uint64 {
	lo := r.U32()
	hi := r.U32()
	return uint64(hi)<<32 | uint64(lo)
}

func (r *Reader) Fixed() Fixed { return Fixed(r.I32()) }

func (r *Reader) ID() ObjectID { return ObjectID(r.U32()) }

// Str reads a length-prefixed, nul-terminated, 32-bit-padded string.
func (r *Reader) Str() string {
	n := int(r.U32())
	if n == 0 {
		return ""
	}
	b := r.take(pad4(n))
	if b == nil {
		return ""
	}
	if n < 1 || b[n-1] != 0 {
		r.fail(ErrBadString)
		return ""
	}
	return string(b[:n-1])
}

// OptStr reads a Str that may legitimately be absent (encoded as length 0
// with no body), returning ("", false) in that case.
func (r *Reader) OptStr() (string, bool) {
	if r.pos+4 <= len(r.buf) && binary.LittleEndian.Uint32(r.buf[r.pos:r.pos+4]) == 0 {
		r.pos += 4
		return "", false
	}
	return r.Str(), true
}

// BStr reads a length-prefixed byte string with no nul terminator or
// trailing-byte convention, still padded to a 4-byte boundary.
func (r *Reader) BStr() []byte {
	n := int(r.U32())
	b := r.take(pad4(n))
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b[:n])
	return out
}

// Array reads a length-prefixed, 4-byte-padded blob of packed u32 elements.
func (r *Reader) Array() []uint32 {
	n := int(r.U32())
	b := r.take(pad4(n))
	if b == nil {
		return nil
	}
	out := make([]uint32, n/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

// Fd pops the next fd delivered out-of-band via this message's SCM_RIGHTS
// ancillary data. Fd fields carry no inline bytes in the main body.
func (r *Reader) Fd() int {
	if len(r.fds) == 0 {
		r.fail(fmt.Errorf("wire: fd field with no fd available"))
		return -1
	}
	fd := r.fds[0]
	r.fds = r.fds[1:]
	return fd
}

func pad4(n int) int { return (n + 3) &^ 3 }

// Writer accumulates an event body plus any fds that must ride along in the
// same sendmsg's ancillary data, mirroring Reader's field set.
type Writer struct {
	buf []byte
	fds []int
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) I32(v int32)   { w.U32(uint32(v)) }
func (w *Writer) Fixed(v Fixed) { w.I32(int32(v)) }
func (w *Writer) ID(v ObjectID) { w.U32(uint32(v)) }

func (w *Writer) U64(v uint64) {
	w.U32(uint32(v >> 32))
	w.U32(uint32(v))
}

func (w *Writer) U64Rev(v uint64) {
	w.U32(uint32(v))
	w.U32(uint32(v >> 32))
}

func (w *Writer) Str(s string) {
	n := len(s) + 1 // + nul
	w.U32(uint32(n))
	w.buf = append(w.buf, s...)
	w.pad(n)
}

func (w *Writer) OptStr(s string, present bool) {
	if !present {
		w.U32(0)
		return
	}
	w.Str(s)
}

func (w *Writer) BStr(b []byte) {
	w.U32(uint32(len(b)))
	w.buf = append(w.buf, b...)
	w.pad(len(b))
}

func (w *Writer) Array(a []uint32) {
	w.U32(uint32(len(a) * 4))
	for _, v := range a {
		w.U32(v)
	}
}

func (w *Writer) Fd(fd int) { w.fds = append(w.fds, fd) }

func (w *Writer) pad(n int) {
	if rem := pad4(n) - n; rem > 0 {
		w.buf = append(w.buf, make([]byte, rem)...)
	}
}

// Frame prefixes the accumulated body with its header and returns the bytes
// to send plus the fds to pass via SCM_RIGHTS, clearing the writer for the
// next message.
func (w *Writer) Frame(object ObjectID, opcode uint16) ([]byte, []int) {
	size := headerLen + len(w.buf)
	if size > math.MaxUint16 {
		panic("wire: message too large")
	}
	out := make([]byte, headerLen, size)
	binary.LittleEndian.PutUint32(out[0:4], uint32(object))
	binary.LittleEndian.PutUint32(out[4:8], uint32(opcode)|uint32(size)<<16)
	out = append(out, w.buf...)
	fds := w.fds
	w.buf = nil
	w.fds = nil
	return out, fds
}

// ParseHeader decodes the 8-byte prefix of a message, returning the object,
// opcode, and the declared total size (including the header itself).
func ParseHeader(buf []byte) (ObjectID, uint16, uint16, error) {
	if len(buf) < headerLen {
		return 0, 0, 0, ErrShortMessage
	}
	object := ObjectID(binary.LittleEndian.Uint32(buf[0:4]))
	word := binary.LittleEndian.Uint32(buf[4:8])
	return object, uint16(word), uint16(word >> 16), nil
}

// Request is a decoded client-to-server message ready for dispatch.
type Request interface {
	// Object is the protocol object the request targets.
	Object() ObjectID
	// Opcode is the request's index within its interface.
	Opcode() uint16
}

// Event is an encodable server-to-client message.
type Event interface {
	// Encode appends this event's body (not including the header) to w and
	// returns the opcode Frame should tag the header with.
	Encode(w *Writer) uint16
}
