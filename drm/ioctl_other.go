//go:build !linux

package drm

import (
	"fmt"
	"os"

	"github.com/gocompose/wm/gpu"
)

// Stubs for non-Linux platforms; DRM/KMS is Linux-only by definition.

func openCard(path string) (*os.File, error) {
	return nil, fmt.Errorf("drm: ioctls only supported on linux")
}

func atomicCommit(f *os.File, cs *ChangeSet, flags uint32, userData uint64) error {
	return fmt.Errorf("drm: ioctls only supported on linux")
}

func importPlaneHandles(f *os.File, desc gpu.DmaBufDescriptor) ([4]uint32, error) {
	return [4]uint32{}, fmt.Errorf("drm: ioctls only supported on linux")
}

func addFB2(f *os.File, desc gpu.DmaBufDescriptor, drmFormat uint32, handles [4]uint32) (Framebuffer, error) {
	return Framebuffer{}, fmt.Errorf("drm: ioctls only supported on linux")
}

func rmFB(f *os.File, id uint32) error {
	return fmt.Errorf("drm: ioctls only supported on linux")
}

func readPageFlipEvents(buf []byte) []uint64 { return nil }

func discoverConnectors(f *os.File) ([]*Connector, error) {
	return nil, fmt.Errorf("drm: ioctls only supported on linux")
}
