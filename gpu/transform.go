package gpu

// Transform mirrors the wl_output.transform enum: how a client's buffer
// must be rotated/flipped before it matches surface-local (and, for an
// Output's own field, layout) orientation. Values match the protocol's
// numbering so a wire-decoded int32 casts directly (spec §8 scenario 2:
// "a 4x2 buffer with buffer_transform = 1 ... effective size is 2x4").
type Transform int32

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Swaps reports whether t exchanges width and height.
func (t Transform) Swaps() bool {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return true
	default:
		return false
	}
}

// ApplyToSize returns the effective (surface-local) size of a bufW x bufH
// buffer once t is applied.
func (t Transform) ApplyToSize(bufW, bufH int32) (w, h int32) {
	if t.Swaps() {
		return bufH, bufW
	}
	return bufW, bufH
}

// ApplyToRect maps a rect given in buffer-local coordinates into
// surface-local coordinates. bufW/bufH are the untransformed buffer's own
// dimensions. Used to turn a wl_surface.damage_buffer rect into the
// output-space damage rect a commit produces.
func (t Transform) ApplyToRect(r Rect, bufW, bufH int32) Rect {
	switch t {
	case TransformNormal:
		return r
	case Transform90:
		return Rect{X: bufH - r.Y - r.H, Y: r.X, W: r.H, H: r.W}
	case Transform180:
		return Rect{X: bufW - r.X - r.W, Y: bufH - r.Y - r.H, W: r.W, H: r.H}
	case Transform270:
		return Rect{X: r.Y, Y: bufW - r.X - r.W, W: r.H, H: r.W}
	case TransformFlipped:
		return Rect{X: bufW - r.X - r.W, Y: r.Y, W: r.W, H: r.H}
	case TransformFlipped90:
		return Rect{X: bufH - r.Y - r.H, Y: bufW - r.X - r.W, W: r.H, H: r.W}
	case TransformFlipped180:
		return Rect{X: r.X, Y: bufH - r.Y - r.H, W: r.W, H: r.H}
	case TransformFlipped270:
		return Rect{X: r.Y, Y: r.X, W: r.H, H: r.W}
	default:
		return r
	}
}

// InverseSample maps a pixel coordinate in the transformed (surface-local)
// frame back to the coordinate it samples from in the untransformed
// buffer, the per-pixel inverse of ApplyToRect — what a rotating blit
// walks the destination rect with.
func (t Transform) InverseSample(tx, ty, bufW, bufH int32) (sx, sy int32) {
	switch t {
	case TransformNormal:
		return tx, ty
	case Transform90:
		return ty, bufH - 1 - tx
	case Transform180:
		return bufW - 1 - tx, bufH - 1 - ty
	case Transform270:
		return bufW - 1 - ty, tx
	case TransformFlipped:
		return bufW - 1 - tx, ty
	case TransformFlipped90:
		return bufW - 1 - ty, bufH - 1 - tx
	case TransformFlipped180:
		return tx, bufH - 1 - ty
	case TransformFlipped270:
		return ty, tx
	default:
		return tx, ty
	}
}
