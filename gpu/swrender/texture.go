package swrender

import (
	"github.com/gocompose/wm/gpu"
)

// texture is the read-only Texture view used for DMA-BUF-imported images.
type texture struct {
	img *gpu.Image
	px  *pixels
}

// WrapTexture builds a read-only Texture view over an Image the context
// already created (e.g. via DmabufImage or ExportImage). Used wherever a
// RenderOp needs to name a texture that isn't itself a Framebuffer or
// ShmTexture.
func WrapTexture(img *gpu.Image) gpu.Texture {
	px, _ := img.Backend().(*pixels)
	return &texture{img: img, px: px}
}

func (t *texture) Image() *gpu.Image { return t.img }

func (t *texture) ReadPixels() ([]byte, error) {
	out := make([]byte, len(t.px.data))
	copy(out, t.px.data)
	return out, nil
}

func (t *texture) Dmabuf() (gpu.DmaBufDescriptor, bool) {
	if len(t.img.Planes) == 0 {
		return gpu.DmaBufDescriptor{}, false
	}
	return gpu.DmaBufDescriptor{
		Width: t.img.Width, Height: t.img.Height,
		Format: t.img.Format.FourCC, Modifier: t.img.Modifier,
		Planes: t.img.Planes,
	}, true
}

// shmTexture implements gpu.ShmTexture: it supports the async-upload
// admission/quantization contract from spec §4.4, executed synchronously
// (no GPU queue handover to simulate) but with the same busy-flag and
// rect-quantization semantics a real backend must honor.
type shmTexture struct {
	ctx  *Context
	img  *gpu.Image
	px   *pixels
	busy bool
}

func (t *shmTexture) Image() *gpu.Image { return t.img }

func (t *shmTexture) ReadPixels() ([]byte, error) {
	out := make([]byte, len(t.px.data))
	copy(out, t.px.data)
	return out, nil
}

func (t *shmTexture) Dmabuf() (gpu.DmaBufDescriptor, bool) { return gpu.DmaBufDescriptor{}, false }

// quantize matches the device transfer granularity damage rects
// are expanded to before upload, per spec §4.4 step 2. The software backend
// has no real hardware granularity, so it uses a conservative 1-pixel grid
// (i.e. no expansion) except that it still clips to bounds and collapses to
// full-image damage when contents are undefined.
func (t *shmTexture) quantize(damage []gpu.Rect) []gpu.Rect {
	if t.img.ContentsUndefined {
		return []gpu.Rect{{X: 0, Y: 0, W: int32(t.img.Width), H: int32(t.img.Height)}}
	}
	out := make([]gpu.Rect, 0, len(damage))
	for _, r := range damage {
		c := clipRect(r, t.img.Width, t.img.Height)
		if c.W > 0 && c.H > 0 {
			out = append(out, c)
		}
	}
	return out
}

func clipRect(r gpu.Rect, w, h uint32) gpu.Rect {
	x0, y0 := max32(r.X, 0), max32(r.Y, 0)
	x1, y1 := min32(r.X+r.W, int32(w)), min32(r.Y+r.H, int32(h))
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return gpu.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// AsyncUpload admits one upload at a time (ErrAsyncCopyBusy otherwise),
// quantizes damage, copies the supplied backing into the pixel buffer, and
// invokes done synchronously — the software backend has no CPU worker pool
// or queue handover to overlap, but every caller-visible step of spec §4.4
// runs in the same order a real backend would run them.
func (t *shmTexture) AsyncUpload(damage []gpu.Rect, backing gpu.ShmBacking, done func(error)) error {
	if t.busy {
		return gpu.ErrAsyncCopyBusy
	}
	t.busy = true
	defer func() { t.busy = false }()

	rects := t.quantize(damage)
	if len(rects) == 0 {
		done(nil)
		return nil
	}

	var src []byte
	if backing.HasFd {
		// The software backend never holds real fds; callers supply the
		// already-read bytes via Ptr even when HasFd is set, for tests
		// that want to exercise the fd-vs-pointer code path distinction.
		src = backing.Ptr
	} else {
		src = backing.Ptr
	}
	if src == nil {
		err := gpu.NewError(gpu.KindResourceExhaustion, "async_upload", gpu.ErrAsyncCopyBusy)
		done(err)
		return nil
	}

	stride := backing.Stride
	if stride == 0 {
		stride = t.px.stride
	}
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			srcOff := int(backing.Offset) + int(uint32(y)*stride) + int(r.X*4)
			dstRowStart := r.X
			for x := int32(0); x < r.W; x++ {
				if srcOff+int(x)*4+3 >= len(src) {
					break
				}
				px := src[srcOff+int(x)*4 : srcOff+int(x)*4+4]
				t.px.set(dstRowStart+x, y, gpu.Color{
					B: float32(px[0]) / 255, G: float32(px[1]) / 255,
					R: float32(px[2]) / 255, A: float32(px[3]) / 255,
				})
			}
		}
	}
	t.img.ContentsUndefined = false
	t.img.Queue = gpu.Acquired(gpu.QueueFamilyGraphics)
	done(nil)
	return nil
}
