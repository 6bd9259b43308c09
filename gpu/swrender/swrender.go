// Package swrender is a pure-Go, no-driver-dependency implementation of the
// gpu.Context contract, used as the spec's "minimal software rendering
// path... acceptable for testing" (spec §1 Non-goals). It executes the
// same Fill/CopyTexture render-op sequence gpu/vulkan's renderer does, but
// against plain byte buffers instead of VkImage/VkBuffer, so scenarios like
// spec §8.1 ("read back framebuffer 100x100 of 0xFFFF0000") run without a
// GPU.
//
// Grounded on hal/software's CPU-rasterizer shape (a Device/Queue pair that
// creates resources and records ops against a host buffer) but narrowed from
// a full 3D triangle rasterizer (hal/software/raster's clip/cull/stencil/
// depth/triangle pipeline) down to the two 2D ops this compositor's
// renderer actually issues — the 3D pipeline has no analogue here and is
// dropped (see DESIGN.md).
package swrender

import (
	"fmt"
	"sync"

	"github.com/gocompose/wm/gpu"
)

// pixels stores BGRA8 (matching VkFormatB8G8R8A8Unorm, the teacher's
// swapchain-preferred format and this core's default opaque format).
type pixels struct {
	w, h   uint32
	stride uint32
	data   []byte
}

func newPixels(w, h uint32) *pixels {
	stride := w * 4
	return &pixels{w: w, h: h, stride: stride, data: make([]byte, int(stride)*int(h))}
}

func (p *pixels) set(x, y int32, c gpu.Color) {
	if x < 0 || y < 0 || uint32(x) >= p.w || uint32(y) >= p.h {
		return
	}
	off := int(uint32(y)*p.stride + uint32(x)*4)
	p.data[off+0] = byteClamp(c.B)
	p.data[off+1] = byteClamp(c.G)
	p.data[off+2] = byteClamp(c.R)
	p.data[off+3] = byteClamp(c.A)
}

func (p *pixels) get(x, y int32) gpu.Color {
	if x < 0 || y < 0 || uint32(x) >= p.w || uint32(y) >= p.h {
		return gpu.Color{}
	}
	off := int(uint32(y)*p.stride + uint32(x)*4)
	return gpu.Color{
		B: float32(p.data[off+0]) / 255,
		G: float32(p.data[off+1]) / 255,
		R: float32(p.data[off+2]) / 255,
		A: float32(p.data[off+3]) / 255,
	}
}

func byteClamp(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// Context implements gpu.Context with no external dependencies.
type Context struct {
	mu     sync.Mutex
	table  *gpu.FormatTable
	frames *gpu.PendingFramePool
	lost   error
}

// NewContext constructs a software context with a minimal format table
// covering the fourCCs this core defines in gpu/format.go.
func NewContext() *Context {
	t := gpu.NewFormatTable()
	argb := gpu.Format{FourCC: gpu.FourCCARGB8888, Vk: gpu.VkFormatB8G8R8A8Unorm, BitsPerPixel: 32, HasAlpha: true, OpaqueTwin: gpu.FourCCXRGB8888}
	xrgb := gpu.Format{FourCC: gpu.FourCCXRGB8888, Vk: gpu.VkFormatB8G8R8A8Unorm, BitsPerPixel: 32}
	caps := gpu.ModifierCaps{Renderable: true, Sampleable: true, PlaneCount: 1, MaxRenderWidth: 16384, MaxRenderHeight: 16384, MaxTransferWidth: 16384, MaxTransferHeight: 16384}
	t.Add(argb, gpu.ModifierLinear, caps)
	t.Add(xrgb, gpu.ModifierLinear, caps)
	return &Context{table: t, frames: gpu.NewPendingFramePool()}
}

func (c *Context) Formats() *gpu.FormatTable { return c.table }

func (c *Context) DmabufImage(desc gpu.DmaBufDescriptor) (*gpu.Image, error) {
	if !c.table.Supports(desc.Format, desc.Modifier) {
		return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_img", gpu.ErrModifierNotSupported)
	}
	caps, _ := c.table.Caps(desc.Format, desc.Modifier)
	if len(desc.Planes) != caps.PlaneCount && caps.PlaneCount != 0 {
		return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_img", fmt.Errorf("expected %d planes, got %d", caps.PlaneCount, len(desc.Planes)))
	}
	// The software backend treats "import" as a copy-free alias: it does
	// not actually mmap the fd (no GPU to import into), but it still
	// enforces spec §9's always-reject rule for undersized planes by
	// requiring the caller to have sized planes to at least width*4*height.
	for _, pl := range desc.Planes {
		if pl.Stride < desc.Width*4 {
			return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_img", gpu.ErrUndersizedPlane)
		}
	}
	px := newPixels(desc.Width, desc.Height)
	format, _ := c.table.Format(desc.Format)
	img := gpu.NewImage(desc.Width, desc.Height, format, px, func() {})
	img.Modifier = desc.Modifier
	img.Planes = desc.Planes
	img.Queue = gpu.Acquired(gpu.QueueFamilyForeign)
	return img, nil
}

func (c *Context) ExportImage(width, height uint32, format gpu.FourCC, candidates []gpu.Modifier) (*gpu.Image, error) {
	mod := gpu.ModifierLinear
	found := false
	for _, m := range candidates {
		if c.table.Supports(format, m) {
			mod = m
			found = true
			break
		}
	}
	if !found && len(candidates) > 0 {
		return nil, gpu.NewError(gpu.KindResourceExhaustion, "export_image", gpu.ErrModifierNotSupported)
	}
	px := newPixels(width, height)
	f, _ := c.table.Format(format)
	img := gpu.NewImage(width, height, f, px, func() {})
	img.Modifier = mod
	img.Planes = []gpu.DmaBufPlane{{Fd: -1, Stride: px.stride}}
	img.Queue = gpu.Released(gpu.QueueFamilyForeign)
	return img, nil
}

func (c *Context) CreateFB(width, height uint32, stride uint32, format gpu.FourCC) (gpu.Framebuffer, error) {
	px := newPixels(width, height)
	f, _ := c.table.Format(format)
	img := gpu.NewImage(width, height, f, px, func() {})
	return &framebuffer{ctx: c, img: img, px: px}, nil
}

func (c *Context) ShmTexture(width, height uint32, format gpu.FourCC) (gpu.ShmTexture, error) {
	px := newPixels(width, height)
	f, _ := c.table.Format(format)
	img := gpu.NewImage(width, height, f, px, func() {})
	return &shmTexture{ctx: c, img: img, px: px}, nil
}

func (c *Context) ResetStatus() error { return c.lost }

func (c *Context) Close() error { return nil }

// Frames exposes the pending-frame pool so tests can assert on invariant 3
// without a real GPU fence to wait on.
func (c *Context) Frames() *gpu.PendingFramePool { return c.frames }

// SimulateDeviceLost marks the context lost, for error-path tests.
func (c *Context) SimulateDeviceLost() { c.lost = gpu.ErrDeviceLost }
