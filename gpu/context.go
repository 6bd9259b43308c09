package gpu

// ShmBacking is where an shm texture's host pixels currently live: either
// an fd+offset (the Wayland wl_shm pool convention) or a raw pointer
// (already-mapped memory). Exactly one is valid, selected by HasFd.
type ShmBacking struct {
	HasFd  bool
	Fd     int
	Offset int64
	Ptr    []byte
	Stride uint32
}

// Context is the GPU-context contract from spec §4.1: capability
// discovery, image factories, and device-loss reporting. Both gpu/vulkan
// and gpu/swrender implement it, so the renderer and the rest of the core
// can be written once against the interface and tested without real
// hardware.
type Context interface {
	// Formats returns the full format/modifier capability table. Entries
	// absent from it must be rejected at image creation.
	Formats() *FormatTable

	// DmabufImage imports a client-provided DMA-BUF as an Image, or
	// returns a *Error with Kind in {KindPeerMisbehaviour,
	// KindResourceExhaustion}. Never leaves partially constructed GPU
	// state behind on error.
	DmabufImage(desc DmaBufDescriptor) (*Image, error)

	// ExportImage allocates a compositor-owned image and exports it as a
	// DMA-BUF, selecting the best modifier from candidates filtered by
	// (width, height, usage) against each modifier's limits.
	ExportImage(width, height uint32, format FourCC, candidates []Modifier) (*Image, error)

	// CreateFB allocates an internal (non-DMA-BUF) renderable framebuffer
	// image.
	CreateFB(width, height uint32, stride uint32, format FourCC) (Framebuffer, error)

	// ShmTexture allocates an internal host-pixel texture backed by shm,
	// supporting the async upload path in spec §4.4.
	ShmTexture(width, height uint32, format FourCC) (ShmTexture, error)

	// ResetStatus reports device loss so the compositor can tear the
	// context down. A nil return means the device is healthy.
	ResetStatus() error

	// Close releases the context's queues, command pools, and allocator.
	// Must not be called while PendingFramePool has active frames;
	// callers wait for device idle first.
	Close() error
}

// ShmTexture extends Texture with the asynchronous upload path spec §4.4
// describes: admission, rect quantization, queue handover, staging
// population, and the GPU copy that flips the image back to the graphics
// queue on completion.
type ShmTexture interface {
	Texture

	// AsyncUpload kicks off an upload of damage (in image-local pixel
	// coordinates) from backing, invoking done when the upload's GPU copy
	// has completed (or immediately, with an error, if admission fails).
	// Returns ErrAsyncCopyBusy if an upload is already in flight for this
	// image.
	AsyncUpload(damage []Rect, backing ShmBacking, done func(error)) error
}
