package gpu

import "sync"

// PendingFrame is a sealed record of one renderer submission: the timeline
// point it was signaled at, the command buffer it used, and the textures
// and staging buffers it referenced (held for the submission's lifetime).
// Invariant 3 (spec §8): none of those resources are freed until the
// timeline reports a value >= the recorded point.
type PendingFrame struct {
	Value         uint64
	CommandBuffer Backend
	Textures      []Texture
	Staging       []*StagingBuffer

	released bool
}

// Release runs once a wait on Value has been observed to fire: it drops the
// frame's strong references to its textures and clears each staging
// buffer's busy flag, returning both back to their pools. Calling it more
// than once is a no-op, so more than one caller may release the same
// frame.
func (f *PendingFrame) Release() {
	if f.released {
		return
	}
	f.released = true
	for _, t := range f.Textures {
		if img := t.Image(); img != nil {
			img.Release()
		}
	}
	for _, s := range f.Staging {
		s.Release()
	}
}

// PendingFramePool tracks in-flight submissions keyed by their timeline
// value so completion waiters (real GPU fence/poll, or a test's manual
// Signal) can release the right frame's resources.
//
// Grounded on hal/vulkan/fence_pool.go's active/free-list pattern,
// generalized from per-submission binary fences to a single monotonically
// increasing timeline value (spec's pending-frame model uses exactly one
// timeline per renderer, not a fence per submission).
type PendingFramePool struct {
	mu            sync.Mutex
	active        []*PendingFrame
	lastCompleted uint64
}

// NewPendingFramePool constructs an empty pool.
func NewPendingFramePool() *PendingFramePool {
	return &PendingFramePool{}
}

// Register records a newly submitted frame.
func (p *PendingFramePool) Register(f *PendingFrame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = append(p.active, f)
}

// Signal reports that the timeline has reached value, releasing every
// pending frame submitted at or before it. This is what a real backend
// calls from its sync-object waiter callback, and what tests call directly
// to simulate GPU completion.
func (p *PendingFramePool) Signal(value uint64) {
	p.mu.Lock()
	if value > p.lastCompleted {
		p.lastCompleted = value
	}
	var toRelease []*PendingFrame
	n := 0
	for _, f := range p.active {
		if f.Value <= value {
			toRelease = append(toRelease, f)
		} else {
			p.active[n] = f
			n++
		}
	}
	p.active = p.active[:n]
	p.mu.Unlock()

	for _, f := range toRelease {
		f.Release()
	}
}

// LastCompleted returns the highest timeline value known to be signaled.
func (p *PendingFramePool) LastCompleted() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCompleted
}

// ActiveCount returns the number of frames still awaiting completion.
// Exposed for invariant 3 tests.
func (p *PendingFramePool) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}
