//go:build linux

package drm

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gocompose/wm/gpu"
)

// Linux ioctl number encoding, mirrored from <asm-generic/ioctl.h>:
//   _IO(type, nr)         = (type << 8) | nr
//   _IOR(type, nr, size)  = 0x80000000 | (size << 16) | (type << 8) | nr
//   _IOW(type, nr, size)  = 0x40000000 | (size << 16) | (type << 8) | nr
//   _IOWR(type, nr, size) = 0xC0000000 | (size << 16) | (type << 8) | nr
const drmIoctlType = 0x64 // 'd'

const (
	// DRM_IOCTL_SET_MASTER / DRM_IOCTL_DROP_MASTER = _IO('d', 0x1e/0x1f)
	ioctlSetMaster  = (drmIoctlType << 8) | 0x1e
	ioctlDropMaster = (drmIoctlType << 8) | 0x1f

	ioctlSetClientCap = 0x4010640d // _IOW('d', 0x0d, struct drm_set_client_cap)

	ioctlModeGetPlaneResources = 0xc01064b5 // _IOWR('d', 0xb5, struct drm_mode_get_plane_res)
	ioctlModeGetPlane          = 0xc02064b6 // _IOWR('d', 0xb6, struct drm_mode_get_plane)
	ioctlModeObjGetProperties  = 0xc02064b9 // _IOWR('d', 0xb9, struct drm_mode_obj_get_properties)
	ioctlModeAddFb2            = 0xc06864b8 // _IOWR('d', 0xb8, struct drm_mode_fb_cmd2)
	ioctlModeRmFb              = 0xc00464af // _IOWR('d', 0xaf, uint32)
	ioctlModeAtomic            = 0xc03864bc // _IOWR('d', 0xbc, struct drm_mode_atomic)
)

const (
	drmClientCapAtomic          = 4
	drmClientCapUniversalPlanes = 2
)

type drmSetClientCap struct {
	Capability uint64
	Value      uint64
}

// drmModeAtomic mirrors struct drm_mode_atomic.
type drmModeAtomic struct {
	Flags          uint32
	CountObjs      uint32
	ObjsPtr        uint64
	CountPropsPtr  uint64
	PropsPtr       uint64
	PropValuesPtr  uint64
	Reserved       uint64
	UserData       uint64
}

// drmModeFbCmd2 mirrors struct drm_mode_fb_cmd2 (DRM_IOCTL_MODE_ADDFB2):
// up to 4 planes, each with its own dma-buf-derived GEM handle/pitch/offset
// and per-plane format modifier.
type drmModeFbCmd2 struct {
	FbID        uint32
	Width       uint32
	Height      uint32
	PixelFormat uint32
	Flags       uint32
	Handles     [4]uint32
	Pitches     [4]uint32
	Offsets     [4]uint32
	Modifier    [4]uint64
}

const drmModeFbModifiers = 1 << 1 // DRM_MODE_FB_MODIFIERS

type drmModeObjGetProperties struct {
	PropsPtr      uint64
	PropValuesPtr uint64
	CountProps    uint32
	ObjID         uint32
	ObjType       uint32
}

type drmModeGetPlaneRes struct {
	PlaneIDPtr uint64
	CountPlanes uint32
}

type drmModeGetPlane struct {
	PlaneID          uint32
	CrtcID           uint32
	FbID             uint32
	PossibleCrtcs    uint32
	GammaSize        uint32
	CountFormatTypes uint32
	FormatTypePtr    uint64
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// openCard opens a DRM render/primary node, claims master, and enables the
// client capabilities atomic commits and universal-plane enumeration need.
func openCard(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := ioctl(f.Fd(), ioctlSetMaster, nil); err != nil {
		f.Close()
		return nil, fmt.Errorf("DRM_IOCTL_SET_MASTER: %w", err)
	}
	for _, cap := range []uint64{drmClientCapUniversalPlanes, drmClientCapAtomic} {
		c := drmSetClientCap{Capability: cap, Value: 1}
		if err := ioctl(f.Fd(), ioctlSetClientCap, unsafe.Pointer(&c)); err != nil {
			f.Close()
			return nil, fmt.Errorf("DRM_IOCTL_SET_CLIENT_CAP(%d): %w", cap, err)
		}
	}
	return f, nil
}

// atomicCommit issues DRM_IOCTL_MODE_ATOMIC for cs's staged (obj, prop,
// value) triples. flags carries ATOMIC_NONBLOCK | PAGE_FLIP_EVENT and,
// for a tearing commit, PAGE_FLIP_ASYNC (spec §4.6 step 9).
func atomicCommit(f *os.File, cs *ChangeSet, flags uint32, userData uint64) error {
	n := len(cs.objs)
	if n == 0 {
		return nil
	}
	// One prop-count per distinct object, in first-seen order, matching
	// the flat objs/props/values arrays the kernel expects.
	var objIDs []uint32
	counts := map[uint32]uint32{}
	order := map[uint32]int{}
	for _, o := range cs.objs {
		if _, seen := order[o]; !seen {
			order[o] = len(objIDs)
			objIDs = append(objIDs, o)
		}
		counts[o]++
	}
	countsPerObj := make([]uint32, len(objIDs))
	for i, o := range objIDs {
		countsPerObj[i] = counts[o]
	}

	req := drmModeAtomic{
		Flags:         flags,
		CountObjs:     uint32(len(objIDs)),
		ObjsPtr:       uint64(uintptr(unsafe.Pointer(&objIDs[0]))),
		CountPropsPtr: uint64(uintptr(unsafe.Pointer(&countsPerObj[0]))),
		PropsPtr:      uint64(uintptr(unsafe.Pointer(&cs.props[0]))),
		PropValuesPtr: uint64(uintptr(unsafe.Pointer(&cs.values[0]))),
		UserData:      userData,
	}
	if err := ioctl(f.Fd(), ioctlModeAtomic, unsafe.Pointer(&req)); err != nil {
		return fmt.Errorf("DRM_IOCTL_MODE_ATOMIC: %w", err)
	}
	return nil
}

const ioctlPrimeFDToHandle = 0xc00c642e // _IOWR('d', 0x2e, struct drm_prime_handle)

type drmPrimeHandle struct {
	Handle uint32
	Flags  uint32
	Fd     int32
}

// primeFDToHandle converts a dma-buf fd into a GEM handle local to this
// DRM fd's file description, the form DRM_IOCTL_MODE_ADDFB2 requires (it
// takes GEM handles, not raw fds).
func primeFDToHandle(f *os.File, fd int) (uint32, error) {
	req := drmPrimeHandle{Fd: int32(fd)}
	if err := ioctl(f.Fd(), ioctlPrimeFDToHandle, unsafe.Pointer(&req)); err != nil {
		return 0, fmt.Errorf("DRM_IOCTL_PRIME_FD_TO_HANDLE: %w", err)
	}
	return req.Handle, nil
}

// importPlaneHandles converts every plane fd in desc to a GEM handle.
func importPlaneHandles(f *os.File, desc gpu.DmaBufDescriptor) ([4]uint32, error) {
	var handles [4]uint32
	for i, p := range desc.Planes {
		if i >= 4 {
			break
		}
		h, err := primeFDToHandle(f, p.Fd)
		if err != nil {
			return handles, err
		}
		handles[i] = h
	}
	return handles, nil
}

// addFB2 imports a client/compositor dma-buf as a kernel framebuffer
// object. Callers obtain handles via importPlaneHandles first.
func addFB2(f *os.File, desc gpu.DmaBufDescriptor, drmFormat uint32, handles [4]uint32) (Framebuffer, error) {
	var req drmModeFbCmd2
	req.Width = desc.Width
	req.Height = desc.Height
	req.PixelFormat = drmFormat
	req.Flags = drmModeFbModifiers
	for i, p := range desc.Planes {
		if i >= 4 {
			break
		}
		req.Handles[i] = handles[i]
		req.Pitches[i] = p.Stride
		req.Offsets[i] = p.Offset
		req.Modifier[i] = uint64(desc.Modifier)
	}
	if err := ioctl(f.Fd(), ioctlModeAddFb2, unsafe.Pointer(&req)); err != nil {
		return Framebuffer{}, fmt.Errorf("DRM_IOCTL_MODE_ADDFB2: %w", err)
	}
	return Framebuffer{ID: req.FbID, Width: desc.Width, Height: desc.Height}, nil
}

func rmFB(f *os.File, id uint32) error {
	return ioctl(f.Fd(), ioctlModeRmFb, unsafe.Pointer(&id))
}

// drmEventVblank mirrors struct drm_event_vblank, the page-flip-complete
// event read back from the DRM fd (spec §4.6: "page-flip events via the
// DRM FD's read queue").
type drmEventVblank struct {
	Base struct {
		Type   uint32
		Length uint32
	}
	UserData      uint64
	TVSec         uint32
	TVUsec        uint32
	Sequence      uint32
	CrtcID        uint32
}

const drmEventFlipComplete = 0x80000001

// readPageFlipEvents parses zero or more drm_event records out of buf (a
// read from the DRM fd) and returns the user_data tag of each
// page-flip-complete event, in order.
func readPageFlipEvents(buf []byte) []uint64 {
	var out []uint64
	for len(buf) >= 8 {
		typ := binary.LittleEndian.Uint32(buf[0:4])
		length := binary.LittleEndian.Uint32(buf[4:8])
		if length < 8 || int(length) > len(buf) {
			break
		}
		if typ == drmEventFlipComplete && length >= 32 {
			out = append(out, binary.LittleEndian.Uint64(buf[8:16]))
		}
		buf = buf[length:]
	}
	return out
}
