package main

import (
	"github.com/gocompose/wm/drm"
	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/scene"
)

// outputSource implements drm.FrameSource for one scene.Output, producing
// the render-op list the ring-buffer framebuffer renders each present
// iteration. Compositing a node's attached client buffer into a
// gpu.RenderOp is the protocol server's job (once a surface's committed
// buffer is imported as a gpu.Image, it becomes a CopyTexture op here);
// until a client attaches one, the output paints its background color,
// matching what an empty desktop looks like on first boot.
type outputSource struct {
	output *scene.Output
	target gpu.Framebuffer
	dirty  bool
}

func newOutputSource(output *scene.Output, target gpu.Framebuffer) *outputSource {
	return &outputSource{output: output, target: target, dirty: true}
}

// MarkDirty is called whenever scene state changes in a way that affects
// this output's pixels (a commit, a move, a focus-driven decoration
// change); the present loop skips a commit entirely when neither damage
// nor the cursor changed (spec §4.6).
func (s *outputSource) MarkDirty() { s.dirty = true }

func (s *outputSource) Damage() bool {
	d := s.dirty
	s.dirty = false
	return d
}

func (s *outputSource) Cursor() drm.CursorState {
	return drm.CursorState{}
}

func (s *outputSource) Ops() []gpu.RenderOp {
	b := s.output.Bounds()
	rect := gpu.Rect{X: int32(b.X), Y: int32(b.Y), W: int32(b.W), H: int32(b.H)}
	return []gpu.RenderOp{gpu.Fill(rect, gpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1})}
}

func (s *outputSource) Target() gpu.Framebuffer {
	return s.target
}
