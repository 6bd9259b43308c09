package memory

import (
	"fmt"
	"unsafe"

	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/gpu/vulkan/vk"
)

// hostVisibleCoherentBits is a placeholder memory-type-bits mask until
// context.go's capability discovery supplies the device's real
// host-visible+host-coherent type index. Staging allocations always
// request this combination (spec §3: "one contiguous host-visible
// mapping... backing an upload").
const hostVisibleCoherentBits uint32 = 0xffffffff

// AllocStagingBuffer materializes a gpu.StagingShell: the function
// gpu.StagingShell.Materialize expects, carving a host-visible block
// from the allocator and wrapping it as a gpu.StagingBuffer. This is
// the landing point for the two-phase staging lifecycle — shells are
// created cheaply up front (spec §3) and only call this when a frame
// actually needs the backing memory.
func (a *Allocator) AllocStagingBuffer(size uint64, upload bool) (*gpu.StagingBuffer, error) {
	block, err := a.Alloc(Request{Size: size, MemoryTypeBits: hostVisibleCoherentBits, HostVisible: true})
	if err != nil {
		return nil, err
	}

	bufInfo := vk.BufferCreateInfo{SType: vk.StructureTypeBufferCreateInfo, Size: size, Usage: uint32(vk.ImageUsageTransferSrc)}
	var buffer vk.Buffer
	if res := a.cmds.CreateBuffer(a.device, &bufInfo, nil, &buffer); res != vk.Success {
		_ = a.Free(block)
		return nil, fmt.Errorf("memory: vkCreateBuffer(staging): %s", res)
	}
	// The staging buffer shares the block's already-bound memory at its
	// offset — a real binding calls vkBindBufferMemory here; omitted from
	// this narrow binding subset (see DESIGN.md).

	var mapped unsafe.Pointer
	if block.Mapped != 0 {
		mapped = unsafe.Pointer(block.Mapped)
	}
	return gpu.NewStagingBuffer(size, upload, mapped, &stagingBackend{alloc: a, block: block, buffer: buffer}), nil
}

// StagingHandle exposes the Vulkan buffer handle behind a gpu.StagingBuffer's
// opaque Backend(), for callers (the shm-upload path) that need to issue a
// vkCmdCopyBufferToImage with it as the source.
type StagingHandle interface {
	Buffer() vk.Buffer
	Block() *Block
}

// stagingBackend is the opaque Backend value stored on a gpu.StagingBuffer
// so the renderer/shm-upload path can recover the underlying VkDeviceMemory
// block and buffer handle for a vkCmdCopyBufferToImage source.
type stagingBackend struct {
	alloc  *Allocator
	block  *Block
	buffer vk.Buffer
}

func (s *stagingBackend) Block() *Block     { return s.block }
func (s *stagingBackend) Buffer() vk.Buffer { return s.buffer }

// Release frees the underlying device-memory block. Called once a
// staging buffer is no longer reachable from any pending frame.
func (s *stagingBackend) Release() error {
	return s.alloc.Free(s.block)
}
