package drm

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/gocompose/wm/gpu"
)

var errEACCES error = syscall.EACCES

// FrameSource is what a Presenter pulls from the scene graph each present
// iteration. It is defined here (rather than depending on the scene
// package) so the scene graph can depend on drm without a cycle.
type FrameSource interface {
	// Damage reports whether there is new content to present since the
	// last successful commit (spec §4.6: a present with no damage and no
	// cursor change is skipped).
	Damage() bool
	Cursor() CursorState
	// Ops returns this frame's render-op list, paint order, last = topmost.
	Ops() []gpu.RenderOp
	// Target is the ring-buffer framebuffer to render into when direct
	// scanout isn't admitted.
	Target() gpu.Framebuffer
}

var errNotMaster = errors.New("drm: not master, skipping frame")

// Presenter drives one connector's present loop: atomic-commit frame
// pacing, direct-scanout admission, and hardware-cursor programming.
// Grounded on present.rs's present_loop/present_once/program_connector.
type Presenter struct {
	connector *Connector
	master    Master
	cache     *ScanoutCache
	source    FrameSource
	screen    gpu.Rect

	preMargin  *commitMargin
	postMargin *commitMargin

	canPresent          bool
	prevCursor          CursorState
	activeFB            Framebuffer
	directScanoutActive bool
	nextUserData        uint64

	now func() time.Time
}

func NewPresenter(connector *Connector, master Master, source FrameSource, screen gpu.Rect) *Presenter {
	now := time.Now
	return &Presenter{
		connector:  connector,
		master:     master,
		cache:      NewScanoutCache(master),
		source:     source,
		screen:     screen,
		preMargin:  newCommitMargin(defaultPreCommitMargin, now),
		postMargin: newCommitMargin(defaultPostCommitMargin, now),
		canPresent: true,
		now:        now,
	}
}

// OnPageFlipComplete marks the connector eligible to present again; call
// for every user_data tag ReadEvents returns for this connector's CRTC.
func (p *Presenter) OnPageFlipComplete() { p.canPresent = true }

// DirectScanoutActive reports whether the most recently committed frame
// scanned a client buffer out directly rather than the renderer's own
// ring-buffer framebuffer.
func (p *Presenter) DirectScanoutActive() bool { return p.directScanoutActive }

// NextDeadline returns when the next commit should be issued relative to
// nextVblank, accounting for pre/post commit margins (spec §4.6 step 5).
func (p *Presenter) NextDeadline(nextVblank time.Time) time.Time {
	return nextVblank.Add(-p.preMargin.Value()).Add(-p.postMargin.Value())
}

// PresentOnce runs one iteration of the present loop: the can-present
// gate, scene/cursor latch, present-fb preparation (direct scanout or
// renderer fallback), atomic commit, and result handling. tearingRequested
// selects an async (non-vsynced) flip when the connector supports it and
// the cursor did not change this frame.
func (p *Presenter) PresentOnce(tearingRequested bool) error {
	if !p.canPresent {
		return nil
	}
	cursor := p.source.Cursor()
	cursorChanged := cursor != p.prevCursor
	if !p.source.Damage() && !cursorChanged {
		return nil
	}

	start := p.now()
	cursorProg := computeCursorProgramming(p.connector.Cursor, p.prevCursor, cursor)

	fb, dmaBufID, usedScanout, err := p.preparePresentFB()
	if err != nil {
		return fmt.Errorf("prepare present fb: %w", err)
	}

	cs := NewChangeSet()
	cs.ChangeObject(p.connector.Primary.ID, func(o *ObjectChanges) {
		plane := p.connector.Primary
		o.Stage(&plane.CrtcID, uint64(p.connector.Crtc.ID))
		o.Stage(&plane.FbID, uint64(fb.ID))
		o.Stage(&plane.SrcX, 0)
		o.Stage(&plane.SrcY, 0)
		o.Stage(&plane.SrcW, uint64(p.screen.W)<<16)
		o.Stage(&plane.SrcH, uint64(p.screen.H)<<16)
		o.Stage(&plane.CrtcX, 0)
		o.Stage(&plane.CrtcY, 0)
		o.Stage(&plane.CrtcW, uint64(plane.ModeW))
		o.Stage(&plane.CrtcH, uint64(plane.ModeH))
	})
	cursorProg.apply(cs)

	// AMD VRR workaround: if VRR is enabled and nothing new is being
	// presented (fb unchanged), re-assert the active fb to nudge the
	// kernel driver (spec §4.6 step 9 note; present.rs fullscreen VRR
	// workaround).
	if p.connector.Crtc.VrrEnabled.Value != 0 && fb.ID == p.activeFB.ID {
		cs.ChangeObject(p.connector.Primary.ID, func(o *ObjectChanges) {
			o.Change(p.connector.Primary.FbID.ID, uint64(fb.ID))
		})
	}

	if cs.IsEmpty() {
		return nil
	}

	flags := CommitNonBlock | CommitPageFlipEvent
	async := tearingRequested && p.connector.SupportsAsyncCommit && !cursorChanged
	if async {
		flags |= CommitPageFlipAsync
	}

	p.nextUserData++
	userData := p.nextUserData
	err = p.master.Commit(cs, flags, userData)
	if async && err != nil {
		// Async flip rejected (not all states allow it); retry as a
		// normal vsynced commit, per present.rs's try_async_flip fallback.
		flags &^= CommitPageFlipAsync
		err = p.master.Commit(cs, flags, userData)
	}

	if err != nil {
		cs.Discard()
		if isEACCES(err) {
			// Not DRM master (e.g. a VT switch happened); wait quietly
			// for the next trigger rather than treating this as fatal.
			return errNotMaster
		}
		if usedScanout {
			p.cache.Disable(dmaBufID)
			return p.retryWithRendererFB(tearingRequested)
		}
		return fmt.Errorf("atomic commit: %w", err)
	}

	cs.Apply()
	p.canPresent = false
	p.prevCursor = cursor
	p.activeFB = fb
	p.directScanoutActive = usedScanout
	p.postMargin.Observe(p.now().Sub(start))
	return nil
}

// retryWithRendererFB re-prepares the frame using the renderer's own
// framebuffer (never a direct-scanout candidate) and commits once more,
// the single retry spec §4.6 allows after a scanout-fb commit failure.
func (p *Presenter) retryWithRendererFB(tearingRequested bool) error {
	target := p.source.Target()
	target.Enqueue(p.source.Ops()...)
	syncFd, err := target.Render(false)
	if err != nil {
		return fmt.Errorf("render fallback frame: %w", err)
	}
	_ = syncFd // awaited by the runtime glue before this retry is issued

	desc, ok := target.Image().Dmabuf()
	if !ok {
		return fmt.Errorf("renderer target has no dma-buf backing")
	}
	fb, err := p.master.ImportDmaBuf(desc, uint32(desc.Format))
	if err != nil {
		return fmt.Errorf("import fallback framebuffer: %w", err)
	}

	cs := NewChangeSet()
	cs.ChangeObject(p.connector.Primary.ID, func(o *ObjectChanges) {
		plane := p.connector.Primary
		o.Stage(&plane.FbID, uint64(fb.ID))
	})
	if cs.IsEmpty() {
		return nil
	}
	p.nextUserData++
	if err := p.master.Commit(cs, CommitNonBlock|CommitPageFlipEvent, p.nextUserData); err != nil {
		cs.Discard()
		return fmt.Errorf("atomic commit (fallback): %w", err)
	}
	cs.Apply()
	p.canPresent = false
	p.activeFB = fb
	p.directScanoutActive = false
	return nil
}

// preparePresentFB attempts direct scanout first and falls back to
// rendering into the ring-buffer target, per spec §4.6 step 7.
func (p *Presenter) preparePresentFB() (fb Framebuffer, dmaBufID uint64, usedScanout bool, err error) {
	ops := p.source.Ops()
	if p.connector.DirectScanoutEnabled {
		cursorActive := p.connector.Cursor != nil && p.prevCursor.Visible
		if idx, ok := canDirectScanout(ops, p.connector.Primary, p.screen, cursorActive); ok {
			top := ops[idx]
			desc, _ := top.Tex.Dmabuf()
			id := dmaBufIdentity(desc)
			if cached, ok := p.cache.Lookup(id, top.Tex); ok {
				return cached, id, true, nil
			}
			imported, err := p.master.ImportDmaBuf(desc, uint32(desc.Format))
			if err != nil {
				return Framebuffer{}, 0, false, err
			}
			p.cache.Store(id, top.Tex, imported)
			return imported, id, true, nil
		}
	}

	target := p.source.Target()
	target.Enqueue(ops...)
	if _, err := target.Render(true); err != nil {
		return Framebuffer{}, 0, false, fmt.Errorf("render present frame: %w", err)
	}
	desc, ok := target.Image().Dmabuf()
	if !ok {
		return Framebuffer{}, 0, false, fmt.Errorf("ring buffer target has no dma-buf backing")
	}
	id := dmaBufIdentity(desc)
	if cached, ok := p.cache.Lookup(id, nil); ok {
		return cached, id, false, nil
	}
	imported, err := p.master.ImportDmaBuf(desc, uint32(desc.Format))
	if err != nil {
		return Framebuffer{}, 0, false, err
	}
	return imported, id, false, nil
}

// dmaBufIdentity derives a cache key from a dma-buf descriptor's first
// plane fd and the buffer geometry; real compositors key on the kernel
// dma-buf inode, which isn't available without an extra fstat syscall per
// frame, so this is left as a documented simplification.
func dmaBufIdentity(desc gpu.DmaBufDescriptor) uint64 {
	if len(desc.Planes) == 0 {
		return 0
	}
	return uint64(desc.Planes[0].Fd)<<32 | uint64(desc.Width)<<16 | uint64(desc.Height)
}

func isEACCES(err error) bool {
	return errors.Is(err, errEACCES)
}
