package memory

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gocompose/wm/gpu/vulkan/vk"
)

// Config tunes the suballocator. Mirrors the pack's device-memory pool
// defaults, scaled down — this compositor allocates a handful of
// render-target and staging images per output, not thousands of
// arbitrary-lifetime GPU resources.
type Config struct {
	BlockSize          uint64 // size of each VkDeviceMemory block requested from the driver
	MinSlotSize        uint64 // smallest suballocation granularity
	DedicatedThreshold uint64 // allocations at/above this size bypass suballocation
	MaxBlocksPerType   int
}

func DefaultConfig() Config {
	return Config{
		BlockSize:          16 << 20, // 16MB
		MinSlotSize:        4096,
		DedicatedThreshold: 8 << 20, // 8MB
		MaxBlocksPerType:   16,
	}
}

// Request describes one allocation.
type Request struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
	HostVisible    bool // staging shells need a mapped, host-visible type
}

// Block is a live allocation: either suballocated from a pooled
// VkDeviceMemory or a dedicated allocation of its own.
type Block struct {
	Memory     vk.DeviceMemory
	Offset     uint64
	Size       uint64
	Mapped     uintptr
	dedicated  bool
	memType    uint32
	slot       slot
	blockIndex int
}

func (b *Block) IsDedicated() bool { return b.dedicated }

type deviceBlock struct {
	memory vk.DeviceMemory
	size   uint64
	mapped uintptr
	region *buddyRegion
}

// Allocator suballocates device memory per Vulkan memory-type index,
// falling back to a dedicated VkDeviceMemory allocation above
// Config.DedicatedThreshold — the same split the pack's device-memory
// pool uses, generalized here with an AllocStagingBuffer entry point so
// gpu.StagingShell's deferred reservation (spec §3 staging lifecycle)
// has somewhere concrete to land.
type Allocator struct {
	mu sync.Mutex

	device vk.Device
	cmds   *vk.Commands
	config Config

	pools map[uint32][]*deviceBlock
}

func NewAllocator(device vk.Device, cmds *vk.Commands, config Config) *Allocator {
	return &Allocator{
		device: device,
		cmds:   cmds,
		config: config,
		pools:  make(map[uint32][]*deviceBlock),
	}
}

func firstSetBit(mask uint32) (uint32, bool) {
	for i := uint32(0); i < 32; i++ {
		if mask&(1<<i) != 0 {
			return i, true
		}
	}
	return 0, false
}

// Alloc reserves device memory satisfying req, suballocating from an
// existing block when possible and growing a new block (or making a
// dedicated allocation for large requests) otherwise.
func (a *Allocator) Alloc(req Request) (*Block, error) {
	memType, ok := firstSetBit(req.MemoryTypeBits)
	if !ok {
		return nil, fmt.Errorf("memory: no memory type bit set in request")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if req.Size >= a.config.DedicatedThreshold {
		return a.allocDedicated(memType, req.Size)
	}

	for i, blk := range a.pools[memType] {
		if s, err := blk.region.alloc(req.Size); err == nil {
			return &Block{
				Memory: blk.memory, Offset: s.Offset, Size: s.Size,
				Mapped: addOffset(blk.mapped, s.Offset), memType: memType,
				slot: s, blockIndex: i,
			}, nil
		}
	}

	if len(a.pools[memType]) >= a.config.MaxBlocksPerType {
		return nil, ErrOutOfMemory
	}
	blk, err := a.growBlock(memType)
	if err != nil {
		return nil, err
	}
	a.pools[memType] = append(a.pools[memType], blk)
	s, err := blk.region.alloc(req.Size)
	if err != nil {
		return nil, err
	}
	return &Block{
		Memory: blk.memory, Offset: s.Offset, Size: s.Size,
		Mapped: addOffset(blk.mapped, s.Offset), memType: memType,
		slot: s, blockIndex: len(a.pools[memType]) - 1,
	}, nil
}

func addOffset(base uintptr, off uint64) uintptr {
	if base == 0 {
		return 0
	}
	return base + uintptr(off)
}

func (a *Allocator) growBlock(memType uint32) (*deviceBlock, error) {
	size := a.config.BlockSize
	region, err := newBuddyRegion(size, a.config.MinSlotSize)
	if err != nil {
		return nil, err
	}

	var memory vk.DeviceMemory
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  size,
		MemoryTypeIndex: memType,
	}
	if res := a.cmds.AllocateMemory(a.device, &allocInfo, nil, &memory); res != vk.Success {
		return nil, fmt.Errorf("memory: vkAllocateMemory failed: %s", res)
	}

	var mapped uintptr
	var ptr unsafe.Pointer
	if res := a.cmds.MapMemory(a.device, memory, 0, size, 0, &ptr); res == vk.Success {
		mapped = uintptr(ptr)
	}

	return &deviceBlock{memory: memory, size: size, mapped: mapped, region: region}, nil
}

func (a *Allocator) allocDedicated(memType uint32, size uint64) (*Block, error) {
	var memory vk.DeviceMemory
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  size,
		MemoryTypeIndex: memType,
	}
	if res := a.cmds.AllocateMemory(a.device, &allocInfo, nil, &memory); res != vk.Success {
		return nil, fmt.Errorf("memory: dedicated vkAllocateMemory failed: %s", res)
	}
	var ptr unsafe.Pointer
	_ = a.cmds.MapMemory(a.device, memory, 0, size, 0, &ptr)
	return &Block{Memory: memory, Offset: 0, Size: size, Mapped: uintptr(ptr), dedicated: true, memType: memType}, nil
}

// Free returns b to its pool (or releases the dedicated allocation).
func (a *Allocator) Free(b *Block) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if b.dedicated {
		a.cmds.FreeMemory(a.device, b.Memory, nil)
		return nil
	}
	blocks := a.pools[b.memType]
	if b.blockIndex < 0 || b.blockIndex >= len(blocks) {
		return ErrDoubleFree
	}
	return blocks[b.blockIndex].region.free2(b.slot)
}
