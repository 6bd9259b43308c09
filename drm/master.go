package drm

import (
	"os"

	"github.com/gocompose/wm/gpu"
)

// CommitFlag mirrors the DRM atomic commit flag bits this backend uses.
type CommitFlag uint32

const (
	CommitNonBlock  CommitFlag = 0x0200 // DRM_MODE_ATOMIC_NONBLOCK
	CommitPageFlipEvent CommitFlag = 0x01 // DRM_MODE_PAGE_FLIP_EVENT
	CommitPageFlipAsync CommitFlag = 0x02 // DRM_MODE_PAGE_FLIP_ASYNC
)

// Master is everything a Presenter needs from a DRM device. The real
// implementation (KernelMaster) issues ioctls against an open card fd;
// tests substitute a fake that records commits and can be made to fail,
// per spec §8 scenarios 4 and 5.
type Master interface {
	// ImportDmaBuf converts a dma-buf descriptor into a kernel Framebuffer,
	// importing each plane fd to a GEM handle first.
	ImportDmaBuf(desc gpu.DmaBufDescriptor, drmFourCC uint32) (Framebuffer, error)

	// RemoveFB releases a previously-imported framebuffer.
	RemoveFB(id uint32) error

	// Commit issues one atomic commit for cs's staged writes. userData is
	// returned verbatim in the page-flip-complete event that later
	// acknowledges this commit.
	Commit(cs *ChangeSet, flags CommitFlag, userData uint64) error

	// ReadEvents blocks until at least one DRM event is available on the
	// device fd and returns the user_data tag of every page-flip-complete
	// event found.
	ReadEvents() ([]uint64, error)

	// Close releases the device.
	Close() error
}

// KernelMaster drives a real DRM device via ioctls.
type KernelMaster struct {
	f *os.File
}

// OpenKernelMaster opens path (e.g. "/dev/dri/card0"), claims DRM master,
// and enables the atomic + universal-plane client capabilities.
func OpenKernelMaster(path string) (*KernelMaster, error) {
	f, err := openCard(path)
	if err != nil {
		return nil, err
	}
	return &KernelMaster{f: f}, nil
}

func (m *KernelMaster) ImportDmaBuf(desc gpu.DmaBufDescriptor, drmFourCC uint32) (Framebuffer, error) {
	handles, err := importPlaneHandles(m.f, desc)
	if err != nil {
		return Framebuffer{}, err
	}
	return addFB2(m.f, desc, drmFourCC, handles)
}

func (m *KernelMaster) RemoveFB(id uint32) error {
	return rmFB(m.f, id)
}

func (m *KernelMaster) Commit(cs *ChangeSet, flags CommitFlag, userData uint64) error {
	return atomicCommit(m.f, cs, uint32(flags), userData)
}

func (m *KernelMaster) ReadEvents() ([]uint64, error) {
	buf := make([]byte, 4096)
	n, err := m.f.Read(buf)
	if err != nil {
		return nil, err
	}
	return readPageFlipEvents(buf[:n]), nil
}

func (m *KernelMaster) Close() error {
	return m.f.Close()
}

// DiscoverConnectors resolves every connected connector's CRTC, primary and
// cursor planes, and the atomic property IDs this backend stages, ready to
// pass to NewPresenter. Called once at startup, after OpenKernelMaster
// (spec §6: "property-id discovery at startup").
func (m *KernelMaster) DiscoverConnectors() ([]*Connector, error) {
	return discoverConnectors(m.f)
}
