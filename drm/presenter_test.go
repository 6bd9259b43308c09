package drm

import (
	"errors"
	"testing"

	"github.com/gocompose/wm/gpu"
)

type fakeMaster struct {
	nextFbID   uint32
	commits    []CommitFlag
	commitErr  error
	importErr  error
}

func (m *fakeMaster) ImportDmaBuf(desc gpu.DmaBufDescriptor, drmFourCC uint32) (Framebuffer, error) {
	if m.importErr != nil {
		return Framebuffer{}, m.importErr
	}
	m.nextFbID++
	return Framebuffer{ID: m.nextFbID, Width: desc.Width, Height: desc.Height}, nil
}

func (m *fakeMaster) RemoveFB(id uint32) error { return nil }

func (m *fakeMaster) Commit(cs *ChangeSet, flags CommitFlag, userData uint64) error {
	m.commits = append(m.commits, flags)
	return m.commitErr
}

func (m *fakeMaster) ReadEvents() ([]uint64, error) { return nil, nil }
func (m *fakeMaster) Close() error                  { return nil }

type fakeFramebuffer struct {
	tex          *fakeTexture
	renderCalls  int
	renderErr    error
}

func (f *fakeFramebuffer) Image() *gpu.Image           { return f.tex.Image() }
func (f *fakeFramebuffer) Enqueue(ops ...gpu.RenderOp) {}
func (f *fakeFramebuffer) Render(clear bool) (int, error) {
	f.renderCalls++
	return -1, f.renderErr
}

type fakeFrameSource struct {
	damage bool
	cursor CursorState
	ops    []gpu.RenderOp
	target *fakeFramebuffer
}

func (s *fakeFrameSource) Damage() bool          { return s.damage }
func (s *fakeFrameSource) Cursor() CursorState   { return s.cursor }
func (s *fakeFrameSource) Ops() []gpu.RenderOp    { return s.ops }
func (s *fakeFrameSource) Target() gpu.Framebuffer { return s.target }

func testConnector() *Connector {
	return &Connector{
		ID: 1,
		Crtc: &Crtc{
			ID:         7,
			Active:     NewProperty(100, 1),
			VrrEnabled: NewProperty(101, 0),
		},
		Primary: &Plane{
			ID: 10, Type: PlaneTypePrimary, ModeW: 1920, ModeH: 1080,
			CrtcID: NewProperty(20, 0), FbID: NewProperty(21, 0),
			SrcX: NewProperty(22, 0), SrcY: NewProperty(23, 0),
			SrcW: NewProperty(24, 0), SrcH: NewProperty(25, 0),
			CrtcX: NewProperty(26, 0), CrtcY: NewProperty(27, 0),
			CrtcW: NewProperty(28, 0), CrtcH: NewProperty(29, 0),
		},
		SupportsAsyncCommit:  true,
		DirectScanoutEnabled: false,
	}
}

// TestPresentOnceSkipsWithoutDamageOrCursorChange exercises spec §4.6's
// "present with no damage and no cursor change is skipped".
func TestPresentOnceSkipsWithoutDamageOrCursorChange(t *testing.T) {
	master := &fakeMaster{}
	source := &fakeFrameSource{damage: false, target: &fakeFramebuffer{tex: newFakeTexture(1920, 1080, gpu.ModifierLinear)}}
	p := NewPresenter(testConnector(), master, source, gpu.Rect{W: 1920, H: 1080})

	if err := p.PresentOnce(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(master.commits) != 0 {
		t.Fatalf("expected no commit when there is no damage, got %d", len(master.commits))
	}
}

// TestPresentOnceCommitsAndGatesOnCanPresent covers scenario: a committed
// frame blocks further presents until OnPageFlipComplete.
func TestPresentOnceCommitsAndGatesOnCanPresent(t *testing.T) {
	master := &fakeMaster{}
	source := &fakeFrameSource{damage: true, target: &fakeFramebuffer{tex: newFakeTexture(1920, 1080, gpu.ModifierLinear)}}
	p := NewPresenter(testConnector(), master, source, gpu.Rect{W: 1920, H: 1080})

	if err := p.PresentOnce(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(master.commits) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(master.commits))
	}
	if err := p.PresentOnce(false); err != nil {
		t.Fatalf("unexpected error on gated call: %v", err)
	}
	if len(master.commits) != 1 {
		t.Fatal("a second PresentOnce before a page-flip event must not commit again")
	}

	p.OnPageFlipComplete()
	source.damage = true
	if err := p.PresentOnce(false); err != nil {
		t.Fatalf("unexpected error after page flip complete: %v", err)
	}
	if len(master.commits) != 2 {
		t.Fatalf("expected a second commit after OnPageFlipComplete, got %d", len(master.commits))
	}
}

// TestPresentOnceEACCESIsNotFatal covers the "not master" (VT switch) path.
func TestPresentOnceEACCESIsNotFatal(t *testing.T) {
	master := &fakeMaster{commitErr: errEACCES}
	source := &fakeFrameSource{damage: true, target: &fakeFramebuffer{tex: newFakeTexture(1920, 1080, gpu.ModifierLinear)}}
	p := NewPresenter(testConnector(), master, source, gpu.Rect{W: 1920, H: 1080})

	err := p.PresentOnce(false)
	if !errors.Is(err, errNotMaster) {
		t.Fatalf("expected errNotMaster, got %v", err)
	}
	// A rejected commit must not have advanced the gate or the active fb.
	if !p.canPresent {
		t.Fatal("a rejected commit must leave canPresent set")
	}
}

// TestPresentOnceDirectScanoutRetriesOnFailure covers the single-retry
// fallback to the renderer's own framebuffer after a direct-scanout commit
// is rejected, and that the scanout cache entry is disabled.
func TestPresentOnceDirectScanoutRetriesOnFailure(t *testing.T) {
	connector := testConnector()
	connector.DirectScanoutEnabled = true
	connector.Primary.Formats = map[gpu.FourCC][]gpu.Modifier{
		gpu.FourCCXRGB8888: {gpu.ModifierLinear},
	}

	tex := newFakeTexture(1920, 1080, gpu.ModifierLinear)
	screen := gpu.Rect{W: 1920, H: 1080}
	op := gpu.CopyTextureOp(tex, screen, screen, nil, gpu.AcquireSync{Kind: gpu.AcquireSyncFile, Fd: 9})

	master := &fakeMaster{commitErr: errors.New("EBUSY")}
	source := &fakeFrameSource{
		damage: true,
		ops:    []gpu.RenderOp{op},
		target: &fakeFramebuffer{tex: newFakeTexture(1920, 1080, gpu.ModifierLinear)},
	}
	p := NewPresenter(connector, master, source, screen)

	err := p.PresentOnce(false)
	if err == nil {
		t.Fatal("expected the fallback commit to also fail and return an error")
	}
	if len(master.commits) < 2 {
		t.Fatalf("expected a scanout commit attempt plus a fallback retry, got %d commits", len(master.commits))
	}
	if _, ok := p.cache.Lookup(dmaBufIdentity(func() gpu.DmaBufDescriptor { d, _ := tex.Dmabuf(); return d }()), tex); ok {
		t.Fatal("a failed scanout commit must disable its cache entry")
	}
}
