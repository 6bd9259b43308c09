package drm

// CursorState is the seat-reported hardware cursor image and position a
// connector should program onto its cursor plane, or the zero value if no
// cursor is currently shown on this output.
type CursorState struct {
	Visible  bool
	FB       Framebuffer
	DmaBufID uint64
	X, Y     int32
	Width, Height uint32
}

// CursorProgrammingKind discriminates the CursorProgramming tagged union.
type CursorProgrammingKind int

const (
	CursorNoop CursorProgrammingKind = iota
	CursorEnable
	CursorDisable
)

// CursorProgramming is what computeCursorProgramming decides to do to a connector's
// cursor plane this frame, grounded on present.rs's CursorProgramming enum
// (Enable{plane,fb,x,y,w,h,swap} / Disable{plane}).
type CursorProgramming struct {
	Kind CursorProgrammingKind
	Plane *Plane
	FB    Framebuffer
	X, Y  int32
	W, H  uint32
	// Swap reports whether the cursor image changed since the last frame
	// and the double-buffered FB must be swapped in (vs. only position
	// having moved, which needs no new FB).
	Swap bool
}

// computeCursorProgramming decides this frame's cursor plane action.
// prev is the cursor state committed last frame and cur is this frame's.
// Mirrors present.rs's compute_cursor_programming.
func computeCursorProgramming(plane *Plane, prev, cur CursorState) CursorProgramming {
	if plane == nil {
		return CursorProgramming{Kind: CursorNoop}
	}
	if !cur.Visible {
		if !prev.Visible {
			return CursorProgramming{Kind: CursorNoop}
		}
		return CursorProgramming{Kind: CursorDisable, Plane: plane}
	}
	swap := !prev.Visible || prev.DmaBufID != cur.DmaBufID
	return CursorProgramming{
		Kind:  CursorEnable,
		Plane: plane,
		FB:    cur.FB,
		X:     cur.X,
		Y:     cur.Y,
		W:     cur.Width,
		H:     cur.Height,
		Swap:  swap,
	}
}

// apply stages prog's property writes into cs for prog.Plane.
func (prog CursorProgramming) apply(cs *ChangeSet) {
	if prog.Kind == CursorNoop || prog.Plane == nil {
		return
	}
	p := prog.Plane
	cs.ChangeObject(p.ID, func(o *ObjectChanges) {
		switch prog.Kind {
		case CursorDisable:
			o.Stage(&p.CrtcID, 0)
			o.Stage(&p.FbID, 0)
		case CursorEnable:
			o.Stage(&p.CrtcID, uint64(p.ID))
			if prog.Swap {
				o.Stage(&p.FbID, uint64(prog.FB.ID))
			}
			o.Stage(&p.SrcX, 0)
			o.Stage(&p.SrcY, 0)
			o.Stage(&p.SrcW, uint64(prog.W)<<16)
			o.Stage(&p.SrcH, uint64(prog.H)<<16)
			o.Stage(&p.CrtcX, uint64(int64(prog.X)))
			o.Stage(&p.CrtcY, uint64(int64(prog.Y)))
			o.Stage(&p.CrtcW, uint64(prog.W))
			o.Stage(&p.CrtcH, uint64(prog.H))
		}
	})
}
