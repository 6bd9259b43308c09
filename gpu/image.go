package gpu

import "sync/atomic"

// DmaBufPlane describes one memory plane of an exported or imported
// DMA-BUF: its file descriptor, byte offset into that fd, and row pitch.
// A descriptor carries at most 4 planes (spec §6).
type DmaBufPlane struct {
	Fd     int
	Offset uint32
	Stride uint32
}

// DmaBufDescriptor is the wire-level shape a client hands over (or the
// compositor exports): format, modifier, and up to 4 planes.
type DmaBufDescriptor struct {
	Width, Height uint32
	Format        FourCC
	Modifier      Modifier
	Planes        []DmaBufPlane
	Disjoint      bool
}

// Backend is implemented by whatever concrete GPU object (vulkan image
// handle + memory, or a swrender CPU buffer) an Image wraps. Kept as `any`
// at this layer so gpu.Image stays backend-agnostic; owning backends type
// assert it back to their own concrete type.
type Backend = any

// Image exclusively owns a GPU image: a backend handle, one or more device
// memory allocations (handled by the backend), up to two views (sample,
// render — also backend-owned), and the bookkeeping spec §3 assigns to
// every Image regardless of backend: dimensions, format, per-plane DMA-BUF
// if exported, current queue-family ownership, and whether its contents are
// defined yet.
//
// Lifecycle: created by a Context factory method; mutated only by
// submitting command buffers that name it; destroyed when its last strong
// reference drops (Release reaching zero), at which point the owning
// backend's release callback frees the underlying memory.
type Image struct {
	Width, Height uint32
	Format        Format
	Modifier      Modifier

	// Planes is non-nil only for images that have been exported as (or
	// imported from) a DMA-BUF.
	Planes []DmaBufPlane

	Queue QueueState

	// ContentsUndefined is true until the image's first defining write
	// (upload, render, or import-time barrier) completes.
	ContentsUndefined bool

	// backend holds the concrete handle set; only the owning backend's
	// package should type-assert this.
	backend Backend

	refcount int32
	release  func()
}

// NewImage constructs an Image with an initial strong reference. release is
// called exactly once, when the last reference drops.
func NewImage(width, height uint32, format Format, backend Backend, release func()) *Image {
	return &Image{
		Width:             width,
		Height:            height,
		Format:            format,
		ContentsUndefined: true,
		backend:           backend,
		refcount:          1,
		release:           release,
	}
}

// Backend returns the backend-owned handle set. Callers in the owning
// backend package type-assert the result to their concrete type.
func (img *Image) Backend() Backend { return img.backend }

// Retain adds a strong reference. Must be balanced by Release.
func (img *Image) Retain() *Image {
	atomic.AddInt32(&img.refcount, 1)
	return img
}

// Release drops a strong reference. When the count reaches zero the
// backend's release callback runs synchronously and frees the underlying
// GPU memory. Callers must not touch the Image afterward.
func (img *Image) Release() {
	if atomic.AddInt32(&img.refcount, -1) == 0 && img.release != nil {
		img.release()
		img.release = nil
	}
}

// RefCount reports the current strong-reference count. Exposed for tests
// verifying invariant 3 (no use-after-free of GPU resources).
func (img *Image) RefCount() int32 {
	return atomic.LoadInt32(&img.refcount)
}
