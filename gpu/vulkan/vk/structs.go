package vk

import "unsafe"

// ApplicationInfo mirrors VkApplicationInfo.
type ApplicationInfo struct {
	SType              StructureType
	PNext              unsafe.Pointer
	PApplicationName   *byte
	ApplicationVersion uint32
	PEngineName        *byte
	EngineVersion      uint32
	ApiVersion         uint32
}

// InstanceCreateInfo mirrors VkInstanceCreateInfo.
type InstanceCreateInfo struct {
	SType                   StructureType
	PNext                   unsafe.Pointer
	Flags                   uint32
	PApplicationInfo        *ApplicationInfo
	EnabledLayerCount       uint32
	PpEnabledLayerNames     **byte
	EnabledExtensionCount   uint32
	PpEnabledExtensionNames **byte
}

// DeviceQueueCreateInfo mirrors VkDeviceQueueCreateInfo.
type DeviceQueueCreateInfo struct {
	SType            StructureType
	PNext            unsafe.Pointer
	Flags            uint32
	QueueFamilyIndex uint32
	QueueCount       uint32
	PQueuePriorities *float32
}

// DeviceCreateInfo mirrors VkDeviceCreateInfo.
type DeviceCreateInfo struct {
	SType                   StructureType
	PNext                   unsafe.Pointer
	Flags                   uint32
	QueueCreateInfoCount    uint32
	PQueueCreateInfos       *DeviceQueueCreateInfo
	EnabledLayerCount       uint32
	PpEnabledLayerNames     **byte
	EnabledExtensionCount   uint32
	PpEnabledExtensionNames **byte
	PEnabledFeatures        unsafe.Pointer
}

// PhysicalDeviceFeatures2 mirrors VkPhysicalDeviceFeatures2, used as the
// pNext anchor for VkPhysicalDeviceTimelineSemaphoreFeatures and
// VkPhysicalDeviceDynamicRenderingFeatures chains.
type PhysicalDeviceFeatures2 struct {
	SType    StructureType
	PNext    unsafe.Pointer
	Features [55]uint32 // VkPhysicalDeviceFeatures, opaque bool32 block
}

type PhysicalDeviceTimelineSemaphoreFeatures struct {
	SType             StructureType
	PNext             unsafe.Pointer
	TimelineSemaphore uint32
}

type PhysicalDeviceDynamicRenderingFeatures struct {
	SType            StructureType
	PNext            unsafe.Pointer
	DynamicRendering uint32
}

// Extent3D / Offset3D mirror the corresponding Vulkan structs.
type Extent3D struct{ Width, Height, Depth uint32 }
type Offset3D struct{ X, Y, Z int32 }
type Extent2D struct{ Width, Height uint32 }
type Offset2D struct{ X, Y int32 }
type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

// ExternalMemoryImageCreateInfo mirrors VkExternalMemoryImageCreateInfo,
// chained into VkImageCreateInfo.pNext to mark an image as dma-buf
// importable/exportable.
type ExternalMemoryImageCreateInfo struct {
	SType       StructureType
	PNext       unsafe.Pointer
	HandleTypes ExternalMemoryHandleTypeFlagBits
}

// SubresourceLayout mirrors VkSubresourceLayout, returned by
// vkGetImageSubresourceLayout for each DRM modifier plane.
type SubresourceLayout struct {
	Offset     uint64
	Size       uint64
	RowPitch   uint64
	ArrayPitch uint64
	DepthPitch uint64
}

// ImageDrmFormatModifierListCreateInfoEXT mirrors the EXT struct used at
// image creation time to offer a set of acceptable modifiers to the
// driver (export path).
type ImageDrmFormatModifierListCreateInfoEXT struct {
	SType                     StructureType
	PNext                     unsafe.Pointer
	DrmFormatModifierCount    uint32
	PDrmFormatModifiers       *uint64
}

// ImageDrmFormatModifierExplicitCreateInfoEXT mirrors the EXT struct used
// to import an image with a caller-supplied modifier and explicit plane
// layouts (import path).
type ImageDrmFormatModifierExplicitCreateInfoEXT struct {
	SType                    StructureType
	PNext                    unsafe.Pointer
	DrmFormatModifier        uint64
	DrmFormatModifierPlaneCount uint32
	PPlaneLayouts            *SubresourceLayout
}

// ImageDrmFormatModifierPropertiesEXT mirrors the struct returned by
// vkGetImageDrmFormatModifierPropertiesEXT.
type ImageDrmFormatModifierPropertiesEXT struct {
	SType             StructureType
	PNext             unsafe.Pointer
	DrmFormatModifier uint64
}

// DrmFormatModifierPropertiesListEXT / DrmFormatModifierPropertiesEXT
// mirror the struct chain vkGetPhysicalDeviceFormatProperties2 fills in
// for VK_EXT_image_drm_format_modifier capability discovery.
type DrmFormatModifierPropertiesEXT struct {
	DrmFormatModifier            uint64
	DrmFormatModifierPlaneCount  uint32
	DrmFormatModifierTilingFeatures uint32
}

type DrmFormatModifierPropertiesListEXT struct {
	SType                          StructureType
	PNext                          unsafe.Pointer
	DrmFormatModifierCount         uint32
	PDrmFormatModifierProperties   *DrmFormatModifierPropertiesEXT
}

type FormatProperties2 struct {
	SType            StructureType
	PNext            unsafe.Pointer
	FormatProperties [3]uint32 // VkFormatProperties (linear/optimal/buffer feature bitmasks)
}

// ImageCreateInfo mirrors VkImageCreateInfo.
type ImageCreateInfo struct {
	SType                 StructureType
	PNext                 unsafe.Pointer
	Flags                 uint32
	ImageType             ImageType
	Format                Format
	Extent                Extent3D
	MipLevels             uint32
	ArrayLayers           uint32
	Samples               SampleCountFlagBits
	Tiling                ImageTiling
	Usage                 ImageUsageFlags
	SharingMode           SharingMode
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   *uint32
	InitialLayout         ImageLayout
}

// MemoryRequirements mirrors VkMemoryRequirements.
type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

// MemoryDedicatedAllocateInfo mirrors VkMemoryDedicatedAllocateInfo,
// required by many drivers when allocating memory bound to a dma-buf
// exported image.
type MemoryDedicatedAllocateInfo struct {
	SType  StructureType
	PNext  unsafe.Pointer
	Image  Image
	Buffer Buffer
}

// ExportMemoryAllocateInfo mirrors VkExportMemoryAllocateInfo, chained
// when allocating memory that will be exported to a dma-buf fd.
type ExportMemoryAllocateInfo struct {
	SType       StructureType
	PNext       unsafe.Pointer
	HandleTypes ExternalMemoryHandleTypeFlagBits
}

// ImportMemoryFdInfoKHR mirrors VkImportMemoryFdInfoKHR, chained when
// importing a dma-buf fd as device memory. Ownership of Fd transfers to
// the driver on success.
type ImportMemoryFdInfoKHR struct {
	SType      StructureType
	PNext      unsafe.Pointer
	HandleType ExternalMemoryHandleTypeFlagBits
	Fd         int32
}

// MemoryFdPropertiesKHR mirrors VkMemoryFdPropertiesKHR, returned by
// vkGetMemoryFdPropertiesKHR to narrow the memoryTypeBits usable for a
// given dma-buf fd before allocation.
type MemoryFdPropertiesKHR struct {
	SType           StructureType
	PNext           unsafe.Pointer
	MemoryTypeBits  uint32
}

// MemoryGetFdInfoKHR mirrors VkMemoryGetFdInfoKHR, the argument to
// vkGetMemoryFdKHR for exporting a dma-buf fd from device memory.
type MemoryGetFdInfoKHR struct {
	SType      StructureType
	PNext      unsafe.Pointer
	Memory     DeviceMemory
	HandleType ExternalMemoryHandleTypeFlagBits
}

// MemoryAllocateInfo mirrors VkMemoryAllocateInfo.
type MemoryAllocateInfo struct {
	SType           StructureType
	PNext           unsafe.Pointer
	AllocationSize  uint64
	MemoryTypeIndex uint32
}

// BufferCreateInfo mirrors VkBufferCreateInfo, used for host-visible
// staging buffers.
type BufferCreateInfo struct {
	SType                 StructureType
	PNext                 unsafe.Pointer
	Flags                 uint32
	Size                  uint64
	Usage                 uint32
	SharingMode           SharingMode
	QueueFamilyIndexCount uint32
	PQueueFamilyIndices   *uint32
}

// CommandPoolCreateInfo / CommandBufferAllocateInfo / CommandBufferBeginInfo
// mirror their Vulkan counterparts.
type CommandPoolCreateInfo struct {
	SType            StructureType
	PNext            unsafe.Pointer
	Flags            uint32
	QueueFamilyIndex uint32
}

type CommandBufferAllocateInfo struct {
	SType              StructureType
	PNext              unsafe.Pointer
	CommandPool        CommandPool
	Level              int32
	CommandBufferCount uint32
}

type CommandBufferBeginInfo struct {
	SType            StructureType
	PNext            unsafe.Pointer
	Flags            CommandBufferUsageFlags
	PInheritanceInfo unsafe.Pointer
}

// SemaphoreTypeCreateInfo / SemaphoreCreateInfo mirror the timeline
// semaphore creation chain.
type SemaphoreTypeCreateInfo struct {
	SType         StructureType
	PNext         unsafe.Pointer
	SemaphoreType SemaphoreType
	InitialValue  uint64
}

type SemaphoreCreateInfo struct {
	SType StructureType
	PNext unsafe.Pointer
	Flags uint32
}

// SemaphoreSubmitInfo / CommandBufferSubmitInfo / SubmitInfo2 mirror the
// VK_KHR_synchronization2 submission structs, used throughout the
// renderer's execute() path instead of the legacy VkSubmitInfo.
type SemaphoreSubmitInfo struct {
	SType       StructureType
	PNext       unsafe.Pointer
	Semaphore   Semaphore
	Value       uint64
	StageMask   PipelineStageFlags2
	DeviceIndex uint32
}

type CommandBufferSubmitInfo struct {
	SType         StructureType
	PNext         unsafe.Pointer
	CommandBuffer CommandBuffer
	DeviceMask    uint32
}

type SubmitInfo2 struct {
	SType                    StructureType
	PNext                    unsafe.Pointer
	Flags                    uint32
	WaitSemaphoreInfoCount   uint32
	PWaitSemaphoreInfos      *SemaphoreSubmitInfo
	CommandBufferInfoCount   uint32
	PCommandBufferInfos      *CommandBufferSubmitInfo
	SignalSemaphoreInfoCount uint32
	PSignalSemaphoreInfos    *SemaphoreSubmitInfo
}

// SemaphoreWaitInfo mirrors VkSemaphoreWaitInfo, used to block the CPU on
// a timeline semaphore value (fence-equivalent wait for pending frames).
type SemaphoreWaitInfo struct {
	SType          StructureType
	PNext          unsafe.Pointer
	Flags          uint32
	SemaphoreCount uint32
	PSemaphores    *Semaphore
	PValues        *uint64
}

// MemoryBarrier2 / ImageMemoryBarrier2 / DependencyInfo mirror the
// VK_KHR_synchronization2 barrier structs used by the renderer between
// the shm-staging copy and the draw passes, and before/after dma-buf
// queue-family ownership transfers.
type MemoryBarrier2 struct {
	SType           StructureType
	PNext           unsafe.Pointer
	SrcStageMask    PipelineStageFlags2
	SrcAccessMask   AccessFlags2
	DstStageMask    PipelineStageFlags2
	DstAccessMask   AccessFlags2
}

type ImageSubresourceRange struct {
	AspectMask     uint32
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type ImageMemoryBarrier2 struct {
	SType               StructureType
	PNext               unsafe.Pointer
	SrcStageMask        PipelineStageFlags2
	SrcAccessMask       AccessFlags2
	DstStageMask        PipelineStageFlags2
	DstAccessMask       AccessFlags2
	OldLayout           ImageLayout
	NewLayout           ImageLayout
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               Image
	SubresourceRange    ImageSubresourceRange
}

// BufferMemoryBarrier2 covers the "matching buffer barriers for each
// staging buffer (HOST_WRITE -> TRANSFER_READ)" spec §4.5 step 3 calls for.
type BufferMemoryBarrier2 struct {
	SType               StructureType
	PNext               unsafe.Pointer
	SrcStageMask        PipelineStageFlags2
	SrcAccessMask       AccessFlags2
	DstStageMask        PipelineStageFlags2
	DstAccessMask       AccessFlags2
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Buffer              Buffer
	Offset              uint64
	Size                uint64
}

// Viewport mirrors VkViewport for vkCmdSetViewportWithCount.
type Viewport struct {
	X, Y, Width, Height, MinDepth, MaxDepth float32
}

// PipelineDynamicStateCreateInfo mirrors VkPipelineDynamicStateCreateInfo.
type PipelineDynamicStateCreateInfo struct {
	SType             StructureType
	PNext             unsafe.Pointer
	Flags             uint32
	DynamicStateCount uint32
	PDynamicStates    *DynamicState
}

type DependencyInfo struct {
	SType                    StructureType
	PNext                    unsafe.Pointer
	DependencyFlags          uint32
	MemoryBarrierCount       uint32
	PMemoryBarriers          *MemoryBarrier2
	BufferMemoryBarrierCount uint32
	PBufferMemoryBarriers    *BufferMemoryBarrier2
	ImageMemoryBarrierCount  uint32
	PImageMemoryBarriers     *ImageMemoryBarrier2
}

// RenderingAttachmentInfo / RenderingInfo mirror the VK_KHR_dynamic_rendering
// structs the renderer uses instead of VkRenderPass/VkFramebuffer.
type ClearValue [16]byte

type RenderingAttachmentInfo struct {
	SType       StructureType
	PNext       unsafe.Pointer
	ImageView   ImageView
	ImageLayout ImageLayout
	LoadOp      int32
	StoreOp     int32
	ClearValue  ClearValue
}

type RenderingInfo struct {
	SType                StructureType
	PNext                unsafe.Pointer
	Flags                uint32
	RenderArea           Rect2D
	LayerCount           uint32
	ViewMask             uint32
	ColorAttachmentCount uint32
	PColorAttachments    *RenderingAttachmentInfo
	PDepthAttachment     unsafe.Pointer
	PStencilAttachment   unsafe.Pointer
}

// BufferImageCopy mirrors VkBufferImageCopy, used by the shm-upload path
// to copy a staging buffer's damaged rects into the destination image.
type ImageSubresourceLayers struct {
	AspectMask     uint32
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type BufferImageCopy struct {
	BufferOffset      uint64
	BufferRowLength   uint32
	BufferImageHeight uint32
	ImageSubresource  ImageSubresourceLayers
	ImageOffset       Offset3D
	ImageExtent       Extent3D
}

// WriteDescriptorSet mirrors VkWriteDescriptorSet, used with
// vkCmdPushDescriptorSetKHR for the copy-texture pipeline's sampled
// image binding — no persistent descriptor sets are allocated.
type DescriptorImageInfo struct {
	Sampler     Sampler
	ImageView   ImageView
	ImageLayout ImageLayout
}

// DescriptorSetLayoutBinding / DescriptorSetLayoutCreateInfo describe the
// single combined-image-sampler binding the copy-texture pipeline pushes
// through vkCmdPushDescriptorSetKHR — the layout carries the
// PUSH_DESCRIPTOR bit so no VkDescriptorPool/VkDescriptorSet is ever
// allocated.
type DescriptorSetLayoutBinding struct {
	Binding            uint32
	DescriptorType     DescriptorType
	DescriptorCount    uint32
	StageFlags         ShaderStageFlags
	PImmutableSamplers *Sampler
}

type DescriptorSetLayoutCreateInfo struct {
	SType        StructureType
	PNext        unsafe.Pointer
	Flags        uint32
	BindingCount uint32
	PBindings    *DescriptorSetLayoutBinding
}

// ImageViewCreateInfo mirrors VkImageViewCreateInfo, used for the
// framebuffer color attachment and sampled-texture views the renderer
// binds each execute() call.
type ComponentMapping struct{ R, G, B, A int32 }

type ImageViewCreateInfo struct {
	SType            StructureType
	PNext            unsafe.Pointer
	Flags            uint32
	Image            Image
	ViewType         int32
	Format           Format
	Components       ComponentMapping
	SubresourceRange ImageSubresourceRange
}

// ShaderModuleCreateInfo / PipelineLayoutCreateInfo /
// GraphicsPipelineCreateInfo are kept intentionally minimal: this
// compositor's two pipelines (fill-rect, copy-texture) take fixed SPIR-V
// word arrays (see pipeline.go) rather than a shader front-end, so only the
// fields that differ between them are modeled.
type ShaderModuleCreateInfo struct {
	SType    StructureType
	PNext    unsafe.Pointer
	Flags    uint32
	CodeSize uintptr
	PCode    *uint32
}

type PushConstantRange struct {
	StageFlags uint32
	Offset     uint32
	Size       uint32
}

type PipelineLayoutCreateInfo struct {
	SType                  StructureType
	PNext                  unsafe.Pointer
	Flags                  uint32
	SetLayoutCount         uint32
	PSetLayouts            *DescriptorSetLayout
	PushConstantRangeCount uint32
	PPushConstantRanges    *PushConstantRange
}

type PipelineShaderStageCreateInfo struct {
	SType  StructureType
	PNext  unsafe.Pointer
	Flags  uint32
	Stage  uint32
	Module ShaderModule
	PName  *byte
}

type GraphicsPipelineCreateInfo struct {
	SType               StructureType
	PNext               unsafe.Pointer // chains PipelineRenderingCreateInfo for dynamic rendering
	Flags               uint32
	StageCount          uint32
	PStages             *PipelineShaderStageCreateInfo
	PVertexInputState   unsafe.Pointer
	PInputAssemblyState unsafe.Pointer
	PViewportState      unsafe.Pointer
	PRasterizationState unsafe.Pointer
	PMultisampleState   unsafe.Pointer
	PDepthStencilState  unsafe.Pointer
	PColorBlendState    unsafe.Pointer
	PDynamicState       unsafe.Pointer
	Layout              PipelineLayout
}

type PipelineRenderingCreateInfo struct {
	SType                   StructureType
	PNext                   unsafe.Pointer
	ViewMask                uint32
	ColorAttachmentCount    uint32
	PColorAttachmentFormats *Format
	DepthAttachmentFormat   Format
	StencilAttachmentFormat Format
}

type SamplerCreateInfo struct {
	SType        StructureType
	PNext        unsafe.Pointer
	Flags        uint32
	MagFilter    Filter
	MinFilter    Filter
	MipmapMode   int32
	AddressModeU int32
	AddressModeV int32
	AddressModeW int32
}

type WriteDescriptorSet struct {
	SType            StructureType
	PNext            unsafe.Pointer
	DstSet           DescriptorSet
	DstBinding       uint32
	DstArrayElement  uint32
	DescriptorCount  uint32
	DescriptorType   DescriptorType
	PImageInfo       *DescriptorImageInfo
	PBufferInfo      unsafe.Pointer
	PTexelBufferView unsafe.Pointer
}
