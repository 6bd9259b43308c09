package drm

import (
	"testing"

	"github.com/gocompose/wm/gpu"
)

type fakeTexture struct {
	img  *gpu.Image
	desc gpu.DmaBufDescriptor
}

func (f *fakeTexture) Image() *gpu.Image                      { return f.img }
func (f *fakeTexture) ReadPixels() ([]byte, error)             { return nil, nil }
func (f *fakeTexture) Dmabuf() (gpu.DmaBufDescriptor, bool)    { return f.desc, true }

func newFakeTexture(w, h uint32, mod gpu.Modifier) *fakeTexture {
	format := gpu.Format{FourCC: gpu.FourCCXRGB8888}
	return &fakeTexture{
		img: gpu.NewImage(w, h, format, nil, nil),
		desc: gpu.DmaBufDescriptor{
			Width: w, Height: h,
			Format:   gpu.FourCCXRGB8888,
			Modifier: mod,
			Planes:   []gpu.DmaBufPlane{{Fd: 3, Stride: w * 4}},
		},
	}
}

func fullScreenPlane(w, h uint32, mod gpu.Modifier) *Plane {
	return &Plane{
		ID:     1,
		Type:   PlaneTypePrimary,
		ModeW:  w,
		ModeH:  h,
		Formats: map[gpu.FourCC][]gpu.Modifier{
			gpu.FourCCXRGB8888: {mod},
		},
	}
}

func TestCanDirectScanoutAdmitsOpaqueFullscreenTexture(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	op := gpu.CopyTextureOp(tex, gpu.Rect{W: 1920, H: 1080}, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	idx, ok := canDirectScanout([]gpu.RenderOp{op}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, false)
	if !ok || idx != 0 {
		t.Fatalf("expected admission at index 0, got idx=%d ok=%v", idx, ok)
	}
}

func TestCanDirectScanoutRejectsImplicitAcquire(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	op := gpu.CopyTextureOp(tex, gpu.Rect{W: 1920, H: 1080}, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireImplicit})

	if _, ok := canDirectScanout([]gpu.RenderOp{op}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, false); ok {
		t.Fatal("implicit acquire sync must never be admitted for direct scanout")
	}
}

func TestCanDirectScanoutRejectsAlphaBlend(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	alpha := float32(0.5)
	op := gpu.CopyTextureOp(tex, gpu.Rect{W: 1920, H: 1080}, screen, &alpha, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	if _, ok := canDirectScanout([]gpu.RenderOp{op}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, false); ok {
		t.Fatal("a blended (alpha != nil) texture must never be admitted")
	}
}

func TestCanDirectScanoutAllowsIgnorableBlackFillBeneath(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	fill := gpu.Fill(gpu.Rect{W: 1920, H: 1080}, gpu.Color{})
	top := gpu.CopyTextureOp(tex, gpu.Rect{W: 1920, H: 1080}, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	idx, ok := canDirectScanout([]gpu.RenderOp{fill, top}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, false)
	if !ok || idx != 1 {
		t.Fatalf("black fill beneath the top texture should be ignorable, got idx=%d ok=%v", idx, ok)
	}
}

func TestCanDirectScanoutRejectsVisibleContentBeneath(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	redFill := gpu.Fill(gpu.Rect{W: 1920, H: 1080}, gpu.Color{R: 1})
	top := gpu.CopyTextureOp(tex, gpu.Rect{W: 1920, H: 1080}, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	if _, ok := canDirectScanout([]gpu.RenderOp{redFill, top}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, false); ok {
		t.Fatal("visible content beneath the top texture must block direct scanout")
	}
}

func TestCanDirectScanoutRejectsUnsupportedModifier(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(1920, 1080, gpu.Modifier(0xdeadbeef))
	op := gpu.CopyTextureOp(tex, gpu.Rect{W: 1920, H: 1080}, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	if _, ok := canDirectScanout([]gpu.RenderOp{op}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, false); ok {
		t.Fatal("a modifier the plane doesn't advertise must be rejected")
	}
}

func TestCanDirectScanoutRejectsScalingWithCursorActive(t *testing.T) {
	screen := gpu.Rect{W: 1920, H: 1080}
	tex := newFakeTexture(960, 540, gpu.ModifierLinear)
	op := gpu.CopyTextureOp(tex, gpu.Rect{W: 960, H: 540}, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	if _, ok := canDirectScanout([]gpu.RenderOp{op}, fullScreenPlane(1920, 1080, gpu.ModifierLinear), screen, true); ok {
		t.Fatal("scaling must be rejected while a hardware cursor is active")
	}
}

func TestScanoutCacheLookupStoreDisable(t *testing.T) {
	c := NewScanoutCache(nil)
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	fb := Framebuffer{ID: 42, Width: 1920, Height: 1080}

	if _, ok := c.Lookup(1, tex); ok {
		t.Fatal("empty cache should miss")
	}
	c.Store(1, tex, fb)
	got, ok := c.Lookup(1, tex)
	if !ok || got.ID != 42 {
		t.Fatalf("Lookup after Store = %+v, %v", got, ok)
	}
	other := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	if _, ok := c.Lookup(1, other); ok {
		t.Fatal("Lookup must miss when the texture identity changed")
	}
	c.Disable(1)
	if _, ok := c.Lookup(1, tex); ok {
		t.Fatal("Disable should evict the entry")
	}
}

func TestScanoutCacheTrimDropsDeadEntries(t *testing.T) {
	c := NewScanoutCache(nil)
	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	c.Store(1, tex, Framebuffer{ID: 1})
	c.Trim(map[gpu.Texture]bool{})
	if _, ok := c.Lookup(1, tex); ok {
		t.Fatal("Trim should drop entries whose texture isn't in the live set")
	}
}
