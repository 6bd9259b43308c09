package vk

type StructureType uint32

const (
	StructureTypeApplicationInfo                StructureType = 0
	StructureTypeInstanceCreateInfo              StructureType = 1
	StructureTypeDeviceQueueCreateInfo           StructureType = 2
	StructureTypeDeviceCreateInfo                StructureType = 3
	StructureTypeSubmitInfo                      StructureType = 4
	StructureTypeMemoryAllocateInfo              StructureType = 5
	StructureTypeFenceCreateInfo                 StructureType = 8
	StructureTypeSemaphoreCreateInfo              StructureType = 9
	StructureTypeBufferCreateInfo                StructureType = 12
	StructureTypeImageCreateInfo                 StructureType = 14
	StructureTypeMemoryBarrier                   StructureType = 46
	StructureTypeCommandPoolCreateInfo            StructureType = 39
	StructureTypeCommandBufferAllocateInfo        StructureType = 40
	StructureTypeCommandBufferBeginInfo           StructureType = 42
	StructureTypeImageViewCreateInfo              StructureType = 15
	StructureTypeShaderModuleCreateInfo            StructureType = 16
	StructureTypePipelineShaderStageCreateInfo     StructureType = 18
	StructureTypePipelineDynamicStateCreateInfo    StructureType = 23
	StructureTypeGraphicsPipelineCreateInfo        StructureType = 28
	StructureTypePipelineLayoutCreateInfo          StructureType = 30
	StructureTypeSamplerCreateInfo                 StructureType = 26
	StructureTypeDescriptorSetLayoutCreateInfo     StructureType = 32
	StructureTypeWriteDescriptorSet                StructureType = 35
	StructureTypePhysicalDeviceFeatures2          StructureType = 1000059000
	StructureTypePhysicalDeviceProperties2        StructureType = 1000059001
	StructureTypeImageFormatProperties2           StructureType = 1000059003
	StructureTypePhysicalDeviceImageFormatInfo2   StructureType = 1000059006

	// VK_KHR_external_memory / VK_KHR_external_memory_fd
	StructureTypeExternalMemoryImageCreateInfo StructureType = 1000072002
	StructureTypeExportMemoryAllocateInfo      StructureType = 1000072001
	StructureTypeImportMemoryFdInfoKHR         StructureType = 1000074000
	StructureTypeMemoryFdPropertiesKHR         StructureType = 1000074001
	StructureTypeMemoryGetFdInfoKHR            StructureType = 1000074002
	StructureTypePhysicalDeviceExternalImageFormatInfo StructureType = 1000071000
	StructureTypeExternalImageFormatProperties         StructureType = 1000071001
	StructureTypeMemoryDedicatedRequirements            StructureType = 1000070000
	StructureTypeMemoryDedicatedAllocateInfo            StructureType = 1000070001

	// VK_EXT_image_drm_format_modifier
	StructureTypeDrmFormatModifierPropertiesListEXT     StructureType = 1000158000
	StructureTypePhysicalDeviceImageDrmFormatModifierInfoEXT StructureType = 1000158002
	StructureTypeImageDrmFormatModifierListCreateInfoEXT     StructureType = 1000158003
	StructureTypeImageDrmFormatModifierExplicitCreateInfoEXT StructureType = 1000158004
	StructureTypeImageDrmFormatModifierPropertiesEXT         StructureType = 1000158005
	StructureTypeDrmFormatModifierPropertiesList2EXT         StructureType = 1000158006

	// VK_KHR_timeline_semaphore
	StructureTypeSemaphoreTypeCreateInfo     StructureType = 1000207002
	StructureTypeTimelineSemaphoreSubmitInfo StructureType = 1000207003
	StructureTypeSemaphoreWaitInfo           StructureType = 1000207004
	StructureTypeSemaphoreSignalInfo         StructureType = 1000207005

	// VK_KHR_dynamic_rendering
	StructureTypeRenderingInfo                          StructureType = 1000044000
	StructureTypeRenderingAttachmentInfo                StructureType = 1000044001
	StructureTypePipelineRenderingCreateInfo             StructureType = 1000044002

	// VK_KHR_synchronization2
	StructureTypeMemoryBarrier2     StructureType = 1000314000
	StructureTypeImageMemoryBarrier2 StructureType = 1000314001
	StructureTypeDependencyInfo      StructureType = 1000314002
	StructureTypeSubmitInfo2         StructureType = 1000314003
	StructureTypeSemaphoreSubmitInfo StructureType = 1000314004
	StructureTypeCommandBufferSubmitInfo StructureType = 1000314005

	// VK_KHR_push_descriptor has no dedicated struct type; it reuses
	// WriteDescriptorSet with vkCmdPushDescriptorSetKHR.
)

type Format int32

const (
	FormatUndefined      Format = 0
	FormatB8G8R8A8Unorm  Format = 44
	FormatB8G8R8A8Srgb   Format = 50
	FormatR8G8B8A8Unorm  Format = 37
)

type ImageTiling int32

const (
	ImageTilingOptimal        ImageTiling = 0
	ImageTilingLinear         ImageTiling = 1
	ImageTilingDrmFormatModifierEXT ImageTiling = 1000158000
)

type ImageType int32

const ImageType2D ImageType = 1

type SampleCountFlagBits uint32

const SampleCount1 SampleCountFlagBits = 1

type SharingMode int32

const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

type ImageLayout int32

const (
	ImageLayoutUndefined                ImageLayout = 0
	ImageLayoutGeneral                  ImageLayout = 1
	ImageLayoutColorAttachmentOptimal   ImageLayout = 2
	ImageLayoutShaderReadOnlyOptimal    ImageLayout = 5
	ImageLayoutTransferSrcOptimal       ImageLayout = 6
	ImageLayoutTransferDstOptimal       ImageLayout = 7
	ImageLayoutPreinitialized           ImageLayout = 8
	ImageLayoutPresentSrcKHR            ImageLayout = 1000001002
)

// AttachmentLoadOp / AttachmentStoreOp select dynamic-rendering color
// attachment behavior (spec §4.5 step 6: CLEAR vs LOAD, always STORE).
const (
	AttachmentLoadOpLoad  int32 = 0
	AttachmentLoadOpClear int32 = 1
)

const AttachmentStoreOpStore int32 = 0

type ShaderStageFlags uint32

const (
	ShaderStageVertex   ShaderStageFlags = 0x00000001
	ShaderStageFragment ShaderStageFlags = 0x00000010
)

type PipelineBindPoint int32

const PipelineBindPointGraphics PipelineBindPoint = 0

// DynamicState selects pipeline state set per-draw instead of baked at
// creation. Both renderer pipelines use WITH_COUNT viewport/scissor so
// one pipeline serves framebuffers of any size.
type DynamicState int32

const (
	DynamicStateViewportWithCount DynamicState = 1000267000
	DynamicStateScissorWithCount  DynamicState = 1000267001
)

type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc            ImageUsageFlags = 0x00000001
	ImageUsageTransferDst            ImageUsageFlags = 0x00000002
	ImageUsageSampled                ImageUsageFlags = 0x00000004
	ImageUsageColorAttachment        ImageUsageFlags = 0x00000010
)

type MemoryPropertyFlags uint32

const (
	MemoryPropertyDeviceLocal    MemoryPropertyFlags = 0x00000001
	MemoryPropertyHostVisible    MemoryPropertyFlags = 0x00000002
	MemoryPropertyHostCoherent   MemoryPropertyFlags = 0x00000004
)

// ExternalMemoryHandleTypeFlagBits identifies the kind of external memory
// handle being imported/exported. Only the dma-buf bit is used here.
type ExternalMemoryHandleTypeFlagBits uint32

const (
	ExternalMemoryHandleTypeOpaqueFd    ExternalMemoryHandleTypeFlagBits = 0x00000001
	ExternalMemoryHandleTypeDmaBufEXT   ExternalMemoryHandleTypeFlagBits = 0x00000200
)

// QueueFamilyForeignEXT marks ownership transfer to/from an external
// (non-Vulkan) consumer, i.e. the DRM/KMS scanout engine.
const QueueFamilyForeignEXT uint32 = 0xfffffffe
const QueueFamilyIgnored uint32 = 0xffffffff

type SemaphoreType int32

const (
	SemaphoreTypeBinary    SemaphoreType = 0
	SemaphoreTypeTimeline  SemaphoreType = 1
)

type PipelineStageFlags2 uint64

const (
	PipelineStage2None              PipelineStageFlags2 = 0
	PipelineStage2TopOfPipe         PipelineStageFlags2 = 0x00000001
	PipelineStage2Transfer          PipelineStageFlags2 = 0x1000
	PipelineStage2ColorAttachmentOutput PipelineStageFlags2 = 0x00000400
	PipelineStage2AllCommands       PipelineStageFlags2 = 0x00010000
)

type AccessFlags2 uint64

const (
	Access2None                AccessFlags2 = 0
	Access2TransferRead        AccessFlags2 = 0x800
	Access2TransferWrite       AccessFlags2 = 0x1000
	Access2ColorAttachmentWrite AccessFlags2 = 0x100
	Access2ShaderSampledRead   AccessFlags2 = 0x100000000
)

type CommandBufferUsageFlags uint32

const CommandBufferUsageOneTimeSubmit CommandBufferUsageFlags = 0x00000001

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 0x00000001
	QueueTransfer QueueFlags = 0x00000004
)

type DescriptorType int32

const DescriptorTypeCombinedImageSampler DescriptorType = 1

// DescriptorSetLayoutCreatePushDescriptorKHR marks a set layout as only
// ever bound via vkCmdPushDescriptorSetKHR, never vkAllocateDescriptorSets.
const DescriptorSetLayoutCreatePushDescriptorKHR uint32 = 0x00000002

type Filter int32

const (
	FilterNearest Filter = 0
	FilterLinear  Filter = 1
)
