package vulkan

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/gpu/vulkan/vk"
)

// vkImage bundles the Vulkan handles this backend's gpu.Image.Backend()
// carries: the image, its bound memory (nil for imports that bound
// memory directly without a tracked Block), and an optional view used
// by the renderer's attachment/sampled-image paths.
type vkImage struct {
	handle vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
	ctx    *Context
}

func (c *Context) release(img *vkImage) func() {
	return func() {
		if img.view != 0 {
			c.cmds.DestroyImageView(c.device, img.view, nil)
		}
		c.cmds.DestroyImage(c.device, img.handle, nil)
		if img.memory != 0 {
			c.cmds.FreeMemory(c.device, img.memory, nil)
		}
	}
}

// DmabufImage imports a client-supplied DMA-BUF as a sampled VkImage
// with an explicit DRM format modifier (spec §4.3 import path). Planes
// that are too small for width/height/format are always rejected (spec
// §9's resolved Open Question), never clamped or padded.
func (c *Context) DmabufImage(desc gpu.DmaBufDescriptor) (*gpu.Image, error) {
	if !c.table.Supports(desc.Format, desc.Modifier) {
		return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_image", gpu.ErrModifierNotSupported)
	}
	caps, _ := c.table.Caps(desc.Format, desc.Modifier)
	if caps.PlaneCount != 0 && len(desc.Planes) != caps.PlaneCount {
		return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_image", fmt.Errorf("expected %d planes, got %d", caps.PlaneCount, len(desc.Planes)))
	}
	for _, pl := range desc.Planes {
		if uint64(pl.Stride) < uint64(desc.Width)*4 {
			return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_image", gpu.ErrUndersizedPlane)
		}
	}

	format, _ := c.table.Format(desc.Format)

	planeLayouts := make([]vk.SubresourceLayout, len(desc.Planes))
	for i, pl := range desc.Planes {
		planeLayouts[i] = vk.SubresourceLayout{Offset: uint64(pl.Offset), RowPitch: uint64(pl.Stride)}
	}
	explicitInfo := vk.ImageDrmFormatModifierExplicitCreateInfoEXT{
		SType: vk.StructureTypeImageDrmFormatModifierExplicitCreateInfoEXT,
		DrmFormatModifier: uint64(desc.Modifier), DrmFormatModifierPlaneCount: uint32(len(desc.Planes)),
		PPlaneLayouts: &planeLayouts[0],
	}
	extMemInfo := vk.ExternalMemoryImageCreateInfo{
		SType: vk.StructureTypeExternalMemoryImageCreateInfo, PNext: unsafe.Pointer(&explicitInfo),
		HandleTypes: vk.ExternalMemoryHandleTypeDmaBufEXT,
	}
	createInfo := vk.ImageCreateInfo{
		SType: vk.StructureTypeImageCreateInfo, PNext: unsafe.Pointer(&extMemInfo),
		ImageType: vk.ImageType2D, Format: vk.Format(format.Vk),
		Extent: vk.Extent3D{Width: desc.Width, Height: desc.Height, Depth: 1},
		MipLevels: 1, ArrayLayers: 1, Samples: vk.SampleCount1,
		Tiling: vk.ImageTilingDrmFormatModifierEXT, Usage: vk.ImageUsageSampled | vk.ImageUsageTransferDst,
		SharingMode: vk.SharingModeExclusive, InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if res := c.cmds.CreateImage(c.device, &createInfo, nil, &image); res != vk.Success {
		return nil, gpu.NewError(gpu.KindDeviceTransient, "dmabuf_image", fmt.Errorf("vkCreateImage: %s", res))
	}

	var reqs vk.MemoryRequirements
	c.cmds.GetImageMemoryRequirements(c.device, image, &reqs)

	var fdProps vk.MemoryFdPropertiesKHR
	fdProps.SType = vk.StructureTypeMemoryFdPropertiesKHR
	_ = c.cmds.GetMemoryFdPropertiesKHR(c.device, vk.ExternalMemoryHandleTypeDmaBufEXT, int32(desc.Planes[0].Fd), &fdProps)

	memType, ok := firstSetBit(reqs.MemoryTypeBits & fdProps.MemoryTypeBits)
	if !ok {
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindPeerMisbehaviour, "dmabuf_image", fmt.Errorf("no memory type compatible with imported fd"))
	}

	// Vulkan takes ownership of the fd in ImportMemoryFdInfoKHR and closes
	// it on both success and failure; dup it first so the original fd
	// (owned by the client buffer's lifecycle, spec §5) is never silently
	// invalidated out from under its actual owner.
	importFd, err := unix.Dup(int(desc.Planes[0].Fd))
	if err != nil {
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "dmabuf_image", fmt.Errorf("dup import fd: %w", err))
	}

	dedicated := vk.MemoryDedicatedAllocateInfo{SType: vk.StructureTypeMemoryDedicatedAllocateInfo, Image: image}
	importInfo := vk.ImportMemoryFdInfoKHR{
		SType: vk.StructureTypeImportMemoryFdInfoKHR, PNext: unsafe.Pointer(&dedicated),
		HandleType: vk.ExternalMemoryHandleTypeDmaBufEXT, Fd: int32(importFd),
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType: vk.StructureTypeMemoryAllocateInfo, PNext: unsafe.Pointer(&importInfo),
		AllocationSize: reqs.Size, MemoryTypeIndex: memType,
	}
	var memHandle vk.DeviceMemory
	if res := c.cmds.AllocateMemory(c.device, &allocInfo, nil, &memHandle); res != vk.Success {
		unix.Close(importFd)
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "dmabuf_image", fmt.Errorf("vkAllocateMemory(import): %s", res))
	}
	if res := c.cmds.BindImageMemory(c.device, image, memHandle, 0); res != vk.Success {
		c.cmds.FreeMemory(c.device, memHandle, nil)
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "dmabuf_image", fmt.Errorf("vkBindImageMemory: %s", res))
	}

	vimg := &vkImage{handle: image, memory: memHandle, ctx: c}
	img := gpu.NewImage(desc.Width, desc.Height, format, vimg, c.release(vimg))
	img.Modifier = desc.Modifier
	img.Planes = desc.Planes
	// Import hands ownership to the graphics queue family immediately;
	// the client (foreign producer) already released it before sending
	// the fd, per spec §4.3's handover contract.
	img.Queue = gpu.Acquired(gpu.QueueFamilyGraphics)
	return img, nil
}

// ExportImage allocates a render-target image this compositor owns and
// can later export as a DMA-BUF (e.g. for a screen-capture client), from
// the first candidate modifier the device supports.
func (c *Context) ExportImage(width, height uint32, format gpu.FourCC, candidates []gpu.Modifier) (*gpu.Image, error) {
	mod := gpu.ModifierLinear
	found := len(candidates) == 0
	for _, m := range candidates {
		if c.table.Supports(format, m) {
			mod, found = m, true
			break
		}
	}
	if !found {
		return nil, gpu.NewError(gpu.KindResourceExhaustion, "export_image", gpu.ErrModifierNotSupported)
	}
	f, _ := c.table.Format(format)

	modList := []uint64{uint64(mod)}
	modListInfo := vk.ImageDrmFormatModifierListCreateInfoEXT{
		SType: vk.StructureTypeImageDrmFormatModifierListCreateInfoEXT,
		DrmFormatModifierCount: 1, PDrmFormatModifiers: &modList[0],
	}
	extMemInfo := vk.ExternalMemoryImageCreateInfo{
		SType: vk.StructureTypeExternalMemoryImageCreateInfo, PNext: unsafe.Pointer(&modListInfo),
		HandleTypes: vk.ExternalMemoryHandleTypeDmaBufEXT,
	}
	createInfo := vk.ImageCreateInfo{
		SType: vk.StructureTypeImageCreateInfo, PNext: unsafe.Pointer(&extMemInfo),
		ImageType: vk.ImageType2D, Format: vk.Format(f.Vk),
		Extent: vk.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels: 1, ArrayLayers: 1, Samples: vk.SampleCount1,
		Tiling: vk.ImageTilingDrmFormatModifierEXT,
		Usage: vk.ImageUsageColorAttachment | vk.ImageUsageSampled | vk.ImageUsageTransferSrc,
		SharingMode: vk.SharingModeExclusive, InitialLayout: vk.ImageLayoutUndefined,
	}
	var image vk.Image
	if res := c.cmds.CreateImage(c.device, &createInfo, nil, &image); res != vk.Success {
		return nil, gpu.NewError(gpu.KindDeviceTransient, "export_image", fmt.Errorf("vkCreateImage: %s", res))
	}
	var reqs vk.MemoryRequirements
	c.cmds.GetImageMemoryRequirements(c.device, image, &reqs)
	memType, _ := firstSetBit(reqs.MemoryTypeBits)

	exportInfo := vk.ExportMemoryAllocateInfo{SType: vk.StructureTypeExportMemoryAllocateInfo, HandleTypes: vk.ExternalMemoryHandleTypeDmaBufEXT}
	dedicated := vk.MemoryDedicatedAllocateInfo{SType: vk.StructureTypeMemoryDedicatedAllocateInfo, Image: image}
	exportInfo.PNext = unsafe.Pointer(&dedicated)
	allocInfo := vk.MemoryAllocateInfo{
		SType: vk.StructureTypeMemoryAllocateInfo, PNext: unsafe.Pointer(&exportInfo),
		AllocationSize: reqs.Size, MemoryTypeIndex: memType,
	}
	var memHandle vk.DeviceMemory
	if res := c.cmds.AllocateMemory(c.device, &allocInfo, nil, &memHandle); res != vk.Success {
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "export_image", fmt.Errorf("vkAllocateMemory: %s", res))
	}
	if res := c.cmds.BindImageMemory(c.device, image, memHandle, 0); res != vk.Success {
		c.cmds.FreeMemory(c.device, memHandle, nil)
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "export_image", fmt.Errorf("vkBindImageMemory: %s", res))
	}

	vimg := &vkImage{handle: image, memory: memHandle, ctx: c}
	img := gpu.NewImage(width, height, f, vimg, c.release(vimg))
	img.Modifier = mod
	img.Queue = gpu.Acquired(gpu.QueueFamilyGraphics)
	return img, nil
}

// ExportFd pulls a dma-buf fd for a previously exported image (used by
// the screen-capture and output-passthrough paths). Ownership of the
// returned fd transfers to the caller.
func ExportFd(c *Context, img *gpu.Image) (int, error) {
	vimg, ok := img.Backend().(*vkImage)
	if !ok {
		return -1, gpu.NewError(gpu.KindContractViolation, "export_fd", fmt.Errorf("image not backed by this context"))
	}
	var fd int32
	getFdInfo := vk.MemoryGetFdInfoKHR{SType: vk.StructureTypeMemoryGetFdInfoKHR, Memory: vimg.memory, HandleType: vk.ExternalMemoryHandleTypeDmaBufEXT}
	if res := c.cmds.GetMemoryFdKHR(c.device, &getFdInfo, &fd); res != vk.Success {
		return -1, gpu.NewError(gpu.KindDeviceTransient, "export_fd", fmt.Errorf("vkGetMemoryFdKHR: %s", res))
	}
	return int(fd), nil
}
