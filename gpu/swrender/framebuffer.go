package swrender

import (
	"github.com/gocompose/wm/gpu"
)

// framebuffer implements gpu.Framebuffer by draining its pending ops queue
// directly into the backing pixel buffer. It follows the same sequencing
// spec §4.5 describes for the real renderer (collect -> shm staging write
// -> draws -> done) minus the barrier bookkeeping, which has no meaning
// without a real GPU timeline.
type framebuffer struct {
	ctx *Context
	img *gpu.Image
	px  *pixels

	pending []gpu.RenderOp
}

func (f *framebuffer) Image() *gpu.Image { return f.img }

func (f *framebuffer) Enqueue(ops ...gpu.RenderOp) {
	f.pending = append(f.pending, ops...)
}

// Render drains the pending op queue, producing exactly one "submission"
// (recorded as a PendingFrame at the next timeline value) and returns -1 for
// the sync-file fd since the software backend has nothing asynchronous to
// wait on — callers should treat draining as already complete when this
// returns.
func (f *framebuffer) Render(clear bool) (int, error) {
	ops := f.pending
	f.pending = nil

	if clear {
		for y := int32(0); y < int32(f.px.h); y++ {
			for x := int32(0); x < int32(f.px.w); x++ {
				f.px.set(x, y, gpu.Color{})
			}
		}
	}

	referenced := make([]gpu.Texture, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case gpu.OpSync:
			// No-op at record time; the software backend has no pipeline
			// state to flush.
		case gpu.OpFillRect:
			fillRect(f.px, op.FillDest, op.FillColor)
		case gpu.OpCopyTexture:
			if op.Tex != nil {
				referenced = append(referenced, op.Tex)
				if img := op.Tex.Image(); img != nil {
					img.Retain()
				}
				srcPx := texturePixels(op.Tex)
				if srcPx != nil {
					copyTexture(f.px, srcPx, op.Source, op.Target, op.Alpha, op.SourceTransform)
				}
			}
		}
	}
	f.img.ContentsUndefined = false

	value := f.ctx.frames.LastCompleted() + 1
	frame := &gpu.PendingFrame{Value: value, Textures: referenced}
	f.ctx.frames.Register(frame)
	// Software "submissions" complete synchronously: signal immediately so
	// tests observe the same drain-then-free contract a real GPU timeline
	// provides, just without the wait.
	f.ctx.frames.Signal(value)

	return -1, nil
}

func texturePixels(t gpu.Texture) *pixels {
	img := t.Image()
	if img == nil {
		return nil
	}
	px, _ := img.Backend().(*pixels)
	return px
}

func fillRect(dst *pixels, rect gpu.Rect, color gpu.Color) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			dst.set(x, y, color)
		}
	}
}

// copyTexture performs a nearest-neighbor blit from src's `source` rect to
// dst's `target` rect, optionally blending with a constant alpha and
// rotating/flipping per transform (spec §8 scenario 2). transform walks
// target in its own (already-rotated) orientation and samples source back
// through transform.InverseSample, so scaling and rotation compose
// correctly even when source and target sizes differ.
func copyTexture(dst, src *pixels, source, target gpu.Rect, alpha *float32, transform gpu.Transform) {
	if target.W <= 0 || target.H <= 0 || source.W <= 0 || source.H <= 0 {
		return
	}
	rotW, rotH := transform.ApplyToSize(source.W, source.H)
	for ty := int32(0); ty < target.H; ty++ {
		ry := ty * rotH / target.H
		for tx := int32(0); tx < target.W; tx++ {
			rx := tx * rotW / target.W
			sx, sy := transform.InverseSample(rx, ry, source.W, source.H)
			c := src.get(source.X+sx, source.Y+sy)
			if alpha != nil {
				a := *alpha
				under := dst.get(target.X+tx, target.Y+ty)
				c = gpu.Color{
					R: c.R*a + under.R*(1-a),
					G: c.G*a + under.G*(1-a),
					B: c.B*a + under.B*(1-a),
					A: c.A*a + under.A*(1-a),
				}
			}
			dst.set(target.X+tx, target.Y+ty, c)
		}
	}
}
