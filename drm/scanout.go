package drm

import (
	"github.com/gocompose/wm/gpu"
)

// DirectScanoutPosition is where in the render-op list the admitted texture
// sat (spec §4.6 step 7: "top-most render op must be a texture").
type DirectScanoutPosition struct {
	OpIndex int
}

// DirectScanoutData is what prepareDirectScanout produces when a frame's
// sole visible content can be handed straight to a plane instead of
// rendered into the ring buffer.
type DirectScanoutData struct {
	Tex      gpu.Texture
	Acquire  gpu.AcquireSync
	FB       Framebuffer
	DmaBufID uint64
	Position DirectScanoutPosition
}

// scanoutCacheEntry remembers a Framebuffer previously imported for a given
// dma-buf id, so repeated frames of the same client buffer skip the
// ADDFB2 ioctl. Entries are trimmed once their texture is no longer live
// (Trim drops every entry whose tex is absent from the live set it is given).
type scanoutCacheEntry struct {
	tex gpu.Texture
	fb  *Framebuffer
}

// ScanoutCache is the per-connector dma-buf-id -> framebuffer cache
// (spec §4.6: "successful imports are cached by dma-buf id"), grounded on
// present.rs's DirectScanoutCache/trim_scanout_cache.
type ScanoutCache struct {
	entries map[uint64]*scanoutCacheEntry
	master  Master
}

func NewScanoutCache(master Master) *ScanoutCache {
	return &ScanoutCache{entries: map[uint64]*scanoutCacheEntry{}, master: master}
}

// Lookup returns a cached framebuffer for dmaBufID if its texture is still
// the same live object, else (nil, false).
func (c *ScanoutCache) Lookup(dmaBufID uint64, tex gpu.Texture) (Framebuffer, bool) {
	e, ok := c.entries[dmaBufID]
	if !ok || e.tex != tex || e.fb == nil {
		return Framebuffer{}, false
	}
	return *e.fb, true
}

// Store records a freshly-imported framebuffer for dmaBufID.
func (c *ScanoutCache) Store(dmaBufID uint64, tex gpu.Texture, fb Framebuffer) {
	c.entries[dmaBufID] = &scanoutCacheEntry{tex: tex, fb: &fb}
}

// Disable drops a cache entry after a commit using it failed. It only
// removes the entry: no record of the failure is kept, so a later frame
// that offers the same dma-buf re-imports it and tries direct scanout
// again.
func (c *ScanoutCache) Disable(dmaBufID uint64) {
	delete(c.entries, dmaBufID)
}

// Trim removes cache entries whose texture is no longer among live,
// mirroring present.rs's trim_scanout_cache (the Rust side uses a weak
// reference; Go has no equivalent, so callers pass the currently-live set
// explicitly each frame).
func (c *ScanoutCache) Trim(live map[gpu.Texture]bool) {
	for id, e := range c.entries {
		if !live[e.tex] {
			delete(c.entries, id)
		}
	}
}

// canDirectScanout implements the admission test of spec §4.6 step 7 for
// a single candidate op sitting at the top of the render-op list. ops is
// the full list in paint order (last = topmost); plane is the primary
// plane the result would be programmed onto; cursorActive reports whether
// a hardware cursor plane is currently enabled (scaling is forbidden in
// that case). Grounded on present.rs's prepare_direct_scanout.
func canDirectScanout(ops []gpu.RenderOp, plane *Plane, screen gpu.Rect, cursorActive bool) (topIndex int, ok bool) {
	if len(ops) == 0 {
		return 0, false
	}
	top := ops[len(ops)-1]
	if top.Kind != gpu.OpCopyTexture {
		return 0, false
	}
	if top.Acquire.Kind == gpu.AcquireNone || top.Acquire.Kind == gpu.AcquireImplicit {
		return 0, false
	}
	if !top.IsOpaqueCover(screen) {
		return 0, false
	}
	// Everything beneath the top op must be an ignorable black fill;
	// anything else means the scene has visible content the plane alone
	// cannot express.
	for i := 0; i < len(ops)-1; i++ {
		if !ops[i].IsIgnorableBlackFill() {
			return 0, false
		}
	}
	desc, isDmaBuf := top.Tex.Dmabuf()
	if !isDmaBuf {
		return 0, false
	}
	if !plane.SupportsModifier(desc.Format, desc.Modifier) {
		return 0, false
	}
	if cursorActive && (top.Source.W != top.Target.W || top.Source.H != top.Target.H) {
		return 0, false // scaling forbidden while a hardware cursor is active
	}
	return len(ops) - 1, true
}
