package gpu

// Texture views an Image for sampling. Backends implement ReadPixels as a
// blocking copy to host memory, and — for DMA-BUF-backed textures —
// Dmabuf returns the export descriptor.
type Texture interface {
	// Image returns the underlying image this texture views.
	Image() *Image

	// ReadPixels blocks until a copy of the texture's current contents is
	// available and returns it as tightly packed rows (stride ==
	// width*bytesPerPixel). Used by tests to verify render output (spec
	// §8 scenario 1).
	ReadPixels() ([]byte, error)

	// Dmabuf returns the export descriptor for DMA-BUF-backed textures, or
	// ok=false for shm/host-only textures.
	Dmabuf() (DmaBufDescriptor, bool)
}

// Framebuffer is a renderable Image plus a CPU-side pending render-ops
// queue, drained atomically by Render.
type Framebuffer interface {
	Image() *Image

	// Enqueue appends ops to the pending queue. Ops accumulate until the
	// next Render call drains them.
	Enqueue(ops ...RenderOp)

	// Render drains the pending queue, producing at most one GPU
	// submission. clear selects LOAD_OP_CLEAR vs LOAD_OP_LOAD for the
	// color attachment. Returns a sync-file fd (or -1 if none) that
	// signals when the submission completes, for downstream waits (e.g.
	// the DRM backend waiting before committing scanout).
	Render(clear bool) (syncFileFd int, err error)
}
