package gpu

import "testing"

type fakeTexture struct {
	img *Image
}

func (f *fakeTexture) Image() *Image                       { return f.img }
func (f *fakeTexture) ReadPixels() ([]byte, error)          { return nil, nil }
func (f *fakeTexture) Dmabuf() (DmaBufDescriptor, bool)     { return DmaBufDescriptor{}, false }

func TestPendingFrameNotReleasedBeforeSignal(t *testing.T) {
	pool := NewPendingFramePool()

	released := false
	img := NewImage(1, 1, Format{}, nil, func() { released = true })
	staging := NewStagingBuffer(64, true, nil, nil)
	_ = staging.Acquire()

	frame := &PendingFrame{
		Value:    5,
		Textures: []Texture{&fakeTexture{img: img}},
		Staging:  []*StagingBuffer{staging},
	}
	pool.Register(frame)

	// Signaling an earlier value must not release the frame (invariant 3).
	pool.Signal(4)
	if pool.ActiveCount() != 1 {
		t.Fatalf("frame released before its timeline point: active=%d", pool.ActiveCount())
	}
	if released {
		t.Fatal("image released before timeline point reached")
	}
	if !staging.Busy() {
		t.Fatal("staging buffer freed before timeline point reached")
	}

	pool.Signal(5)
	if !released {
		t.Fatal("image not released once timeline point reached")
	}
	if staging.Busy() {
		t.Fatal("staging buffer still busy after timeline point reached")
	}
	if pool.ActiveCount() != 0 {
		t.Fatalf("expected 0 active frames, got %d", pool.ActiveCount())
	}
}

func TestPendingFrameSignalIsMonotoneLastCompleted(t *testing.T) {
	pool := NewPendingFramePool()
	pool.Signal(10)
	pool.Signal(3) // out-of-order signal must not regress lastCompleted
	if pool.LastCompleted() != 10 {
		t.Fatalf("lastCompleted regressed: got %d", pool.LastCompleted())
	}
}
