package wire

import (
	"reflect"
	"testing"
)

func TestWriterReaderRoundTripScalarFields(t *testing.T) {
	var w Writer
	w.U32(0xdeadbeef)
	w.I32(-42)
	w.U64(0x0102030405060708)
	w.U64Rev(0x0102030405060708)
	w.Fixed(FixedFromFloat64(12.5))
	w.ID(ObjectID(7))

	body := w.buf
	r := NewReader(body, nil)
	if got := r.U32(); got != 0xdeadbeef {
		t.Fatalf("U32 = %#x, want %#x", got, 0xdeadbeef)
	}
	if got := r.I32(); got != -42 {
		t.Fatalf("I32 = %d, want -42", got)
	}
	if got := r.U64(); got != 0x0102030405060708 {
		t.Fatalf("U64 = %#x", got)
	}
	if got := r.U64Rev(); got != 0x0102030405060708 {
		t.Fatalf("U64Rev = %#x, want %#x", got, uint64(0x0102030405060708))
	}
	if got := r.Fixed(); got.Float64() != 12.5 {
		t.Fatalf("Fixed = %v, want 12.5", got.Float64())
	}
	if got := r.ID(); got != 7 {
		t.Fatalf("ID = %d, want 7", got)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestStrRoundTripAndPadding(t *testing.T) {
	cases := []string{"", "a", "wl_surface", "four"}
	for _, s := range cases {
		var w Writer
		w.Str(s)
		if len(w.buf)%4 != 0 {
			t.Fatalf("Str(%q) produced unpadded body of length %d", s, len(w.buf))
		}
		r := NewReader(w.buf, nil)
		got := r.Str()
		if r.Err() != nil {
			t.Fatalf("Str(%q): decode error %v", s, r.Err())
		}
		if got != s {
			t.Fatalf("Str round trip: got %q, want %q", got, s)
		}
	}
}

func TestOptStrAbsentAndPresent(t *testing.T) {
	var w Writer
	w.OptStr("", false)
	w.OptStr("hello", true)

	r := NewReader(w.buf, nil)
	if s, ok := r.OptStr(); ok || s != "" {
		t.Fatalf("expected absent optstr, got (%q, %v)", s, ok)
	}
	if s, ok := r.OptStr(); !ok || s != "hello" {
		t.Fatalf("expected present optstr %q, got (%q, %v)", "hello", s, ok)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	in := []uint32{1, 2, 3, 4, 5}
	var w Writer
	w.Array(in)
	r := NewReader(w.buf, nil)
	got := r.Array()
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("Array round trip: got %v, want %v", got, in)
	}
}

func TestBStrRoundTripOddLength(t *testing.T) {
	in := []byte{1, 2, 3} // not a multiple of 4, exercises the padding path
	var w Writer
	w.BStr(in)
	if len(w.buf)%4 != 0 {
		t.Fatalf("BStr produced unpadded body of length %d", len(w.buf))
	}
	r := NewReader(w.buf, nil)
	got := r.BStr()
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("BStr round trip: got %v, want %v", got, in)
	}
}

func TestFdFieldPopsInOrder(t *testing.T) {
	r := NewReader(nil, []int{11, 22})
	if got := r.Fd(); got != 11 {
		t.Fatalf("first Fd() = %d, want 11", got)
	}
	if got := r.Fd(); got != 22 {
		t.Fatalf("second Fd() = %d, want 22", got)
	}
	r.Fd() // exhausts the fd list
	if r.Err() == nil {
		t.Fatal("expected an error popping an fd with none available")
	}
}

func TestReaderFailsOnTruncatedBody(t *testing.T) {
	r := NewReader([]byte{1, 2, 3}, nil)
	r.U32()
	if r.Err() == nil {
		t.Fatal("expected ErrTruncated reading a u32 from a 3-byte buffer")
	}
}

func TestFrameHeaderRoundTrip(t *testing.T) {
	var w Writer
	w.U32(1)
	w.U32(2)
	frame, fds := w.Frame(ObjectID(42), 3)
	if len(fds) != 0 {
		t.Fatalf("expected no fds, got %v", fds)
	}
	object, opcode, size, err := ParseHeader(frame)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if object != 42 {
		t.Fatalf("object = %d, want 42", object)
	}
	if opcode != 3 {
		t.Fatalf("opcode = %d, want 3", opcode)
	}
	if int(size) != len(frame) {
		t.Fatalf("size = %d, want %d", size, len(frame))
	}
}

func TestParseHeaderRejectsShortMessage(t *testing.T) {
	if _, _, _, err := ParseHeader([]byte{1, 2, 3}); err != ErrShortMessage {
		t.Fatalf("expected ErrShortMessage, got %v", err)
	}
}

func TestSurfaceAttachDecode(t *testing.T) {
	var w Writer
	w.ID(ObjectID(5))
	w.I32(10)
	w.I32(-3)
	r := NewReader(w.buf, nil)
	got := DecodeSurfaceAttach(ObjectID(1), r)
	want := SurfaceAttach{Obj: 1, Buffer: 5, X: 10, Y: -3}
	if got != want {
		t.Fatalf("DecodeSurfaceAttach = %+v, want %+v", got, want)
	}
	if got.Opcode() != OpSurfaceAttach {
		t.Fatalf("Opcode() = %d, want %d", got.Opcode(), OpSurfaceAttach)
	}
}

func TestSurfaceSetBufferTransformDecode(t *testing.T) {
	var w Writer
	w.I32(1) // wl_output.transform.90
	r := NewReader(w.buf, nil)
	got := DecodeSurfaceSetBufferTransform(ObjectID(1), r)
	want := SurfaceSetBufferTransform{Obj: 1, Transform: 1}
	if got != want {
		t.Fatalf("DecodeSurfaceSetBufferTransform = %+v, want %+v", got, want)
	}
	if got.Opcode() != OpSurfaceSetBufferTransform {
		t.Fatalf("Opcode() = %d, want %d", got.Opcode(), OpSurfaceSetBufferTransform)
	}
}

func TestPointerEnterEncode(t *testing.T) {
	ev := PointerEnter{Serial: 9, Surface: 3, SurfaceX: FixedFromFloat64(1.5), SurfaceY: FixedFromFloat64(-2)}
	var w Writer
	opcode := ev.Encode(&w)
	if opcode != OpPointerEnter {
		t.Fatalf("opcode = %d, want %d", opcode, OpPointerEnter)
	}
	r := NewReader(w.buf, nil)
	if serial := r.U32(); serial != 9 {
		t.Fatalf("serial = %d, want 9", serial)
	}
	if surf := r.ID(); surf != 3 {
		t.Fatalf("surface = %d, want 3", surf)
	}
	if x := r.Fixed().Float64(); x != 1.5 {
		t.Fatalf("x = %v, want 1.5", x)
	}
}

func TestXdgToplevelConfigureEncodesStatesArray(t *testing.T) {
	ev := XdgToplevelConfigure{Width: 800, Height: 600, States: []XdgToplevelState{XdgToplevelStateActivated, XdgToplevelStateMaximized}}
	var w Writer
	ev.Encode(&w)
	r := NewReader(w.buf, nil)
	if width := r.I32(); width != 800 {
		t.Fatalf("width = %d, want 800", width)
	}
	r.I32() // height
	states := r.Array()
	want := []uint32{uint32(XdgToplevelStateActivated), uint32(XdgToplevelStateMaximized)}
	if !reflect.DeepEqual(states, want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
}

func TestKeyboardKeymapCarriesFd(t *testing.T) {
	ev := KeyboardKeymap{Format: KeymapFormatXkbV1, Fd: 99, Size: 4096}
	var w Writer
	ev.Encode(&w)
	frame, fds := w.Frame(ObjectID(2), OpKeyboardKeymap)
	if len(fds) != 1 || fds[0] != 99 {
		t.Fatalf("fds = %v, want [99]", fds)
	}
	_, opcode, _, _ := ParseHeader(frame)
	if opcode != OpKeyboardKeymap {
		t.Fatalf("opcode = %d, want %d", opcode, OpKeyboardKeymap)
	}
}
