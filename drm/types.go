package drm

import "github.com/gocompose/wm/gpu"

// Mode mirrors struct drm_mode_modeinfo's fields this backend needs.
type Mode struct {
	Width, Height uint32
	Refresh       uint32
	Clock         uint32
	Name          string
}

// Framebuffer is a kernel-side DRM_IOCTL_MODE_ADDFB2 object: an fb_id the
// kernel will scan out and its size. The direct-scanout cache keys it by
// dma-buf id itself; the Framebuffer carries no dma-buf identity.
type Framebuffer struct {
	ID     uint32
	Width  uint32
	Height uint32
}

// Crtc is one CRTC object's tracked atomic properties.
type Crtc struct {
	ID uint32

	ModeID     Property // blob id of the currently-set mode
	Active     Property
	VrrEnabled Property
}

// PlaneType discriminates primary/cursor/overlay planes — only primary and
// cursor are driven by this package (spec §4.6 names no overlay use).
type PlaneType int

const (
	PlaneTypePrimary PlaneType = iota
	PlaneTypeCursor
)

// Plane is one plane object's tracked atomic properties plus the
// format/modifier set it advertises (spec §4.6 step 7e).
type Plane struct {
	ID   uint32
	Type PlaneType

	CrtcID Property
	FbID   Property
	SrcX   Property
	SrcY   Property
	SrcW   Property
	SrcH   Property
	CrtcX  Property
	CrtcY  Property
	CrtcW  Property
	CrtcH  Property
	InFenceFd Property

	// ModeW/ModeH is the active CRTC mode's size, used to size a
	// fullscreen primary-plane present (spec §4.6 step 9).
	ModeW, ModeH uint32

	// Formats maps a supported DRM fourCC to the modifiers the kernel
	// advertised for it on this plane (spec §4.6 step 7e).
	Formats map[gpu.FourCC][]gpu.Modifier
}

// SupportsModifier reports whether fourcc/mod is in this plane's
// advertised format/modifier set.
func (p *Plane) SupportsModifier(fourcc gpu.FourCC, mod gpu.Modifier) bool {
	mods, ok := p.Formats[fourcc]
	if !ok {
		return false
	}
	for _, m := range mods {
		if m == mod {
			return true
		}
	}
	return false
}

// Connector identifies one physical output and the CRTC/plane pair driving
// it. DeviceIsAMD/DeviceIsNvidia/SupportsAsyncCommit mirror the per-device
// quirks spec §4.6 names (VRR re-assert workaround, in_fence_fd gating,
// async-flip support).
type Connector struct {
	ID          uint32
	KernelID    string
	Crtc        *Crtc
	Primary     *Plane
	Cursor      *Plane // nil if no hardware cursor plane
	CursorWidth, CursorHeight uint32

	DeviceIsAMD            bool
	DeviceIsNvidia         bool
	SupportsAsyncCommit    bool
	DirectScanoutEnabled   bool
	IsRenderDevice         bool
}
