package drm

import "testing"

func TestComputeCursorProgrammingNilPlaneIsNoop(t *testing.T) {
	prog := computeCursorProgramming(nil, CursorState{}, CursorState{Visible: true})
	if prog.Kind != CursorNoop {
		t.Fatalf("expected CursorNoop with no cursor plane, got %v", prog.Kind)
	}
}

func TestComputeCursorProgrammingHideToHideIsNoop(t *testing.T) {
	plane := &Plane{ID: 2, Type: PlaneTypeCursor}
	prog := computeCursorProgramming(plane, CursorState{}, CursorState{})
	if prog.Kind != CursorNoop {
		t.Fatalf("expected CursorNoop when staying hidden, got %v", prog.Kind)
	}
}

func TestComputeCursorProgrammingVisibleToHiddenDisables(t *testing.T) {
	plane := &Plane{ID: 2, Type: PlaneTypeCursor}
	prev := CursorState{Visible: true, DmaBufID: 5}
	prog := computeCursorProgramming(plane, prev, CursorState{})
	if prog.Kind != CursorDisable || prog.Plane != plane {
		t.Fatalf("expected CursorDisable on plane, got %+v", prog)
	}
}

func TestComputeCursorProgrammingNewImageSwaps(t *testing.T) {
	plane := &Plane{ID: 2, Type: PlaneTypeCursor}
	prev := CursorState{Visible: true, DmaBufID: 5}
	cur := CursorState{Visible: true, DmaBufID: 6, FB: Framebuffer{ID: 9}, X: 10, Y: 20, Width: 32, Height: 32}

	prog := computeCursorProgramming(plane, prev, cur)
	if prog.Kind != CursorEnable || !prog.Swap {
		t.Fatalf("expected CursorEnable with Swap=true on image change, got %+v", prog)
	}
	if prog.FB.ID != 9 || prog.X != 10 || prog.Y != 20 {
		t.Fatalf("unexpected programmed position/fb: %+v", prog)
	}
}

func TestComputeCursorProgrammingMoveOnlySkipsSwap(t *testing.T) {
	plane := &Plane{ID: 2, Type: PlaneTypeCursor}
	prev := CursorState{Visible: true, DmaBufID: 5, X: 0, Y: 0, Width: 32, Height: 32}
	cur := CursorState{Visible: true, DmaBufID: 5, X: 15, Y: 25, Width: 32, Height: 32}

	prog := computeCursorProgramming(plane, prev, cur)
	if prog.Kind != CursorEnable || prog.Swap {
		t.Fatalf("a pure position move must not request a buffer swap, got %+v", prog)
	}
	if prog.X != 15 || prog.Y != 25 {
		t.Fatalf("expected updated position, got x=%d y=%d", prog.X, prog.Y)
	}
}

func TestCursorProgrammingApplyEnableStagesGeometry(t *testing.T) {
	plane := &Plane{
		ID: 2, Type: PlaneTypeCursor,
		CrtcID: NewProperty(10, 0), FbID: NewProperty(11, 0),
		SrcX: NewProperty(12, 0), SrcY: NewProperty(13, 0),
		SrcW: NewProperty(14, 0), SrcH: NewProperty(15, 0),
		CrtcX: NewProperty(16, 0), CrtcY: NewProperty(17, 0),
		CrtcW: NewProperty(18, 0), CrtcH: NewProperty(19, 0),
	}
	prog := CursorProgramming{Kind: CursorEnable, Plane: plane, FB: Framebuffer{ID: 77}, X: 3, Y: 4, W: 32, H: 32, Swap: true}

	cs := NewChangeSet()
	prog.apply(cs)
	if cs.IsEmpty() {
		t.Fatal("enabling the cursor should stage at least one property write")
	}
	cs.Apply()
	if plane.FbID.Value != 77 || plane.CrtcID.Value != 2 {
		t.Fatalf("expected fb/crtc to be staged+applied, got fb=%d crtc=%d", plane.FbID.Value, plane.CrtcID.Value)
	}
	if plane.CrtcW.Value != 32 || plane.CrtcH.Value != 32 {
		t.Fatalf("expected crtc size 32x32, got %dx%d", plane.CrtcW.Value, plane.CrtcH.Value)
	}
}

func TestCursorProgrammingApplyDisableZeroesFbAndCrtc(t *testing.T) {
	plane := &Plane{
		ID: 2, Type: PlaneTypeCursor,
		CrtcID: NewProperty(10, 2), FbID: NewProperty(11, 77),
	}
	prog := CursorProgramming{Kind: CursorDisable, Plane: plane}

	cs := NewChangeSet()
	prog.apply(cs)
	cs.Apply()
	if plane.FbID.Value != 0 || plane.CrtcID.Value != 0 {
		t.Fatalf("disable should zero both fb_id and crtc_id, got fb=%d crtc=%d", plane.FbID.Value, plane.CrtcID.Value)
	}
}
