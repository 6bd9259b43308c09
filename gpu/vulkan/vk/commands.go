package vk

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Commands holds the resolved function pointers this package calls.
// Zero value is safe; unresolved entries return ErrorExtensionNotPresent
// or are simply skipped for void-returning functions, matching the
// teacher stack's convention of tolerating absent optional extensions.
type Commands struct {
	createInstance  unsafe.Pointer
	destroyInstance unsafe.Pointer

	enumeratePhysicalDevices               unsafe.Pointer
	getPhysicalDeviceQueueFamilyProperties unsafe.Pointer
	getPhysicalDeviceFormatProperties2     unsafe.Pointer
	getPhysicalDeviceImageFormatProperties2 unsafe.Pointer
	createDevice                           unsafe.Pointer

	destroyDevice unsafe.Pointer
	getDeviceQueue unsafe.Pointer
	deviceWaitIdle unsafe.Pointer

	createImage                         unsafe.Pointer
	destroyImage                        unsafe.Pointer
	getImageMemoryRequirements          unsafe.Pointer
	getImageSubresourceLayout           unsafe.Pointer
	getImageDrmFormatModifierPropertiesEXT unsafe.Pointer

	allocateMemory        unsafe.Pointer
	freeMemory            unsafe.Pointer
	mapMemory             unsafe.Pointer
	unmapMemory           unsafe.Pointer
	bindImageMemory       unsafe.Pointer
	getMemoryFdKHR        unsafe.Pointer
	getMemoryFdPropertiesKHR unsafe.Pointer

	createBuffer  unsafe.Pointer
	destroyBuffer unsafe.Pointer

	createSemaphore          unsafe.Pointer
	destroySemaphore         unsafe.Pointer
	waitSemaphores           unsafe.Pointer
	getSemaphoreCounterValue unsafe.Pointer
	signalSemaphore          unsafe.Pointer

	createCommandPool      unsafe.Pointer
	allocateCommandBuffers unsafe.Pointer
	resetCommandBuffer     unsafe.Pointer
	beginCommandBuffer     unsafe.Pointer
	endCommandBuffer       unsafe.Pointer

	cmdPipelineBarrier2    unsafe.Pointer
	cmdBeginRendering      unsafe.Pointer
	cmdEndRendering        unsafe.Pointer
	cmdCopyBufferToImage   unsafe.Pointer
	cmdBindPipeline        unsafe.Pointer
	cmdPushDescriptorSetKHR unsafe.Pointer
	cmdDraw                unsafe.Pointer
	cmdSetViewportWithCount unsafe.Pointer
	cmdSetScissorWithCount  unsafe.Pointer
	cmdPushConstants        unsafe.Pointer

	queueSubmit2 unsafe.Pointer

	createImageView     unsafe.Pointer
	destroyImageView    unsafe.Pointer
	createShaderModule  unsafe.Pointer
	destroyShaderModule unsafe.Pointer
	createDescriptorSetLayout  unsafe.Pointer
	destroyDescriptorSetLayout unsafe.Pointer
	createPipelineLayout unsafe.Pointer
	destroyPipelineLayout unsafe.Pointer
	createGraphicsPipelines unsafe.Pointer
	destroyPipeline     unsafe.Pointer
	createSampler       unsafe.Pointer
	destroySampler      unsafe.Pointer
}

// NewCommands returns a zero Commands; call LoadGlobal/LoadInstance/LoadDevice
// in order to populate it.
func NewCommands() *Commands { return &Commands{} }

func (c *Commands) LoadGlobal() error {
	c.createInstance = GetInstanceProcAddr(0, "vkCreateInstance")
	if c.createInstance == nil {
		return fmt.Errorf("vk: vkCreateInstance not found")
	}
	return nil
}

func (c *Commands) LoadInstance(instance Instance) error {
	c.destroyInstance = GetInstanceProcAddr(instance, "vkDestroyInstance")
	c.enumeratePhysicalDevices = GetInstanceProcAddr(instance, "vkEnumeratePhysicalDevices")
	c.getPhysicalDeviceQueueFamilyProperties = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceQueueFamilyProperties")
	c.getPhysicalDeviceFormatProperties2 = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceFormatProperties2")
	c.getPhysicalDeviceImageFormatProperties2 = GetInstanceProcAddr(instance, "vkGetPhysicalDeviceImageFormatProperties2")
	c.createDevice = GetInstanceProcAddr(instance, "vkCreateDevice")
	if c.destroyInstance == nil || c.enumeratePhysicalDevices == nil || c.createDevice == nil {
		return fmt.Errorf("vk: failed to resolve critical instance functions")
	}
	SetDeviceProcAddr(instance)
	return nil
}

func (c *Commands) LoadDevice(device Device) error {
	get := func(name string) unsafe.Pointer { return GetDeviceProcAddr(device, name) }

	c.destroyDevice = get("vkDestroyDevice")
	c.getDeviceQueue = get("vkGetDeviceQueue")
	c.deviceWaitIdle = get("vkDeviceWaitIdle")

	c.createImage = get("vkCreateImage")
	c.destroyImage = get("vkDestroyImage")
	c.getImageMemoryRequirements = get("vkGetImageMemoryRequirements")
	c.getImageSubresourceLayout = get("vkGetImageSubresourceLayout")
	c.getImageDrmFormatModifierPropertiesEXT = get("vkGetImageDrmFormatModifierPropertiesEXT")

	c.allocateMemory = get("vkAllocateMemory")
	c.freeMemory = get("vkFreeMemory")
	c.mapMemory = get("vkMapMemory")
	c.unmapMemory = get("vkUnmapMemory")
	c.bindImageMemory = get("vkBindImageMemory")
	c.getMemoryFdKHR = get("vkGetMemoryFdKHR")
	c.getMemoryFdPropertiesKHR = get("vkGetMemoryFdPropertiesKHR")

	c.createBuffer = get("vkCreateBuffer")
	c.destroyBuffer = get("vkDestroyBuffer")

	c.createSemaphore = get("vkCreateSemaphore")
	c.destroySemaphore = get("vkDestroySemaphore")
	c.waitSemaphores = get("vkWaitSemaphores")
	c.getSemaphoreCounterValue = get("vkGetSemaphoreCounterValue")
	c.signalSemaphore = get("vkSignalSemaphore")

	c.createCommandPool = get("vkCreateCommandPool")
	c.allocateCommandBuffers = get("vkAllocateCommandBuffers")
	c.resetCommandBuffer = get("vkResetCommandBuffer")
	c.beginCommandBuffer = get("vkBeginCommandBuffer")
	c.endCommandBuffer = get("vkEndCommandBuffer")

	c.cmdPipelineBarrier2 = get("vkCmdPipelineBarrier2")
	c.cmdBeginRendering = get("vkCmdBeginRendering")
	c.cmdEndRendering = get("vkCmdEndRendering")
	c.cmdCopyBufferToImage = get("vkCmdCopyBufferToImage")
	c.cmdBindPipeline = get("vkCmdBindPipeline")
	c.cmdPushDescriptorSetKHR = get("vkCmdPushDescriptorSetKHR")
	c.cmdDraw = get("vkCmdDraw")
	c.cmdSetViewportWithCount = get("vkCmdSetViewportWithCount")
	c.cmdSetScissorWithCount = get("vkCmdSetScissorWithCount")
	c.cmdPushConstants = get("vkCmdPushConstants")

	c.queueSubmit2 = get("vkQueueSubmit2")

	c.createImageView = get("vkCreateImageView")
	c.destroyImageView = get("vkDestroyImageView")
	c.createShaderModule = get("vkCreateShaderModule")
	c.destroyShaderModule = get("vkDestroyShaderModule")
	c.createDescriptorSetLayout = get("vkCreateDescriptorSetLayout")
	c.destroyDescriptorSetLayout = get("vkDestroyDescriptorSetLayout")
	c.createPipelineLayout = get("vkCreatePipelineLayout")
	c.destroyPipelineLayout = get("vkDestroyPipelineLayout")
	c.createGraphicsPipelines = get("vkCreateGraphicsPipelines")
	c.destroyPipeline = get("vkDestroyPipeline")
	c.createSampler = get("vkCreateSampler")
	c.destroySampler = get("vkDestroySampler")

	if c.createImage == nil || c.allocateMemory == nil || c.queueSubmit2 == nil {
		return fmt.Errorf("vk: failed to resolve critical device functions (missing synchronization2/dynamic-rendering support?)")
	}
	return nil
}

func callResult(cif *types.CallInterface, fn unsafe.Pointer, args []unsafe.Pointer) Result {
	if fn == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	_ = ffi.CallFunction(cif, fn, unsafe.Pointer(&result), args)
	return Result(result)
}

func (c *Commands) CreateInstance(createInfo *InstanceCreateInfo, allocator unsafe.Pointer, instance *Instance) Result {
	if c.createInstance == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [3]unsafe.Pointer{unsafe.Pointer(&createInfo), unsafe.Pointer(&allocator), unsafe.Pointer(&instance)}
	_ = ffi.CallFunction(&sigResultPtrPtrPtr, c.createInstance, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) DestroyInstance(instance Instance, allocator unsafe.Pointer) {
	if c.destroyInstance == nil {
		return
	}
	args := [2]unsafe.Pointer{unsafe.Pointer(&instance), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandlePtr, c.destroyInstance, nil, args[:])
}

func (c *Commands) EnumeratePhysicalDevices(instance Instance, count *uint32, devices *PhysicalDevice) Result {
	if c.enumeratePhysicalDevices == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [4]unsafe.Pointer{unsafe.Pointer(&instance), unsafe.Pointer(&count), unsafe.Pointer(&devices)}
	_ = ffi.CallFunction(&sigResultHandleU32PtrPtr, c.enumeratePhysicalDevices, unsafe.Pointer(&result), args[:3])
	return Result(result)
}

func (c *Commands) CreateDevice(phys PhysicalDevice, createInfo *DeviceCreateInfo, allocator unsafe.Pointer, device *Device) Result {
	return callResult(&sigResultHandlePtrPtr, c.createDevice,
		[]unsafe.Pointer{unsafe.Pointer(&phys), unsafe.Pointer(&createInfo), unsafe.Pointer(&device)})
}

func (c *Commands) DestroyDevice(device Device, allocator unsafe.Pointer) {
	if c.destroyDevice == nil {
		return
	}
	args := [2]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandlePtr, c.destroyDevice, nil, args[:])
}

func (c *Commands) GetDeviceQueue(device Device, familyIndex, queueIndex uint32, queue *Queue) {
	if c.getDeviceQueue == nil {
		return
	}
	args := [4]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&familyIndex), unsafe.Pointer(&queueIndex), unsafe.Pointer(&queue)}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.getDeviceQueue, nil, args[:])
}

func (c *Commands) CreateImage(device Device, createInfo *ImageCreateInfo, allocator unsafe.Pointer, image *Image) Result {
	return callResult(&sigResultHandlePtrPtr, c.createImage,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&image)})
}

func (c *Commands) DestroyImage(device Device, image Image, allocator unsafe.Pointer) {
	if c.destroyImage == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyImage, nil, args[:])
}

func (c *Commands) GetImageMemoryRequirements(device Device, image Image, reqs *MemoryRequirements) {
	if c.getImageMemoryRequirements == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&reqs)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.getImageMemoryRequirements, nil, args[:])
}

func (c *Commands) GetImageSubresourceLayout(device Device, image Image, subresource unsafe.Pointer, layout *SubresourceLayout) {
	if c.getImageSubresourceLayout == nil {
		return
	}
	args := [4]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&subresource), unsafe.Pointer(&layout)}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.getImageSubresourceLayout, nil, args[:])
}

func (c *Commands) GetImageDrmFormatModifierPropertiesEXT(device Device, image Image, props *ImageDrmFormatModifierPropertiesEXT) Result {
	return callResult(&sigResultHandlePtrPtr, c.getImageDrmFormatModifierPropertiesEXT,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&props)})
}

func (c *Commands) AllocateMemory(device Device, allocInfo *MemoryAllocateInfo, allocator unsafe.Pointer, memory *DeviceMemory) Result {
	return callResult(&sigResultHandlePtrPtr, c.allocateMemory,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&allocInfo), unsafe.Pointer(&memory)})
}

func (c *Commands) FreeMemory(device Device, memory DeviceMemory, allocator unsafe.Pointer) {
	if c.freeMemory == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&memory), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.freeMemory, nil, args[:])
}

func (c *Commands) MapMemory(device Device, memory DeviceMemory, offset, size uint64, flags uint32, data *unsafe.Pointer) Result {
	if c.mapMemory == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&memory), unsafe.Pointer(&offset),
		unsafe.Pointer(&size), unsafe.Pointer(&flags), unsafe.Pointer(&data),
	}
	_ = ffi.CallFunction(&sigResultHandleU64U64PtrPtr, c.mapMemory, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) UnmapMemory(device Device, memory DeviceMemory) {
	if c.unmapMemory == nil {
		return
	}
	args := [2]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&memory)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.unmapMemory, nil, args[:1])
}

func (c *Commands) BindImageMemory(device Device, image Image, memory DeviceMemory, offset uint64) Result {
	return callResult(&sigResultHandlePtrU64, c.bindImageMemory,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&image), unsafe.Pointer(&offset)})
}

func (c *Commands) GetMemoryFdKHR(device Device, getFdInfo *MemoryGetFdInfoKHR, fd *int32) Result {
	return callResult(&sigResultHandlePtrPtr, c.getMemoryFdKHR,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&getFdInfo), unsafe.Pointer(&fd)})
}

func (c *Commands) GetMemoryFdPropertiesKHR(device Device, handleType ExternalMemoryHandleTypeFlagBits, fd int32, props *MemoryFdPropertiesKHR) Result {
	if c.getMemoryFdPropertiesKHR == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [4]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&handleType), unsafe.Pointer(&fd), unsafe.Pointer(&props)}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.getMemoryFdPropertiesKHR, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) CreateBuffer(device Device, createInfo *BufferCreateInfo, allocator unsafe.Pointer, buffer *Buffer) Result {
	return callResult(&sigResultHandlePtrPtr, c.createBuffer,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&buffer)})
}

func (c *Commands) DestroyBuffer(device Device, buffer Buffer, allocator unsafe.Pointer) {
	if c.destroyBuffer == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&buffer), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyBuffer, nil, args[:])
}

func (c *Commands) CreateSemaphore(device Device, createInfo *SemaphoreCreateInfo, allocator unsafe.Pointer, semaphore *Semaphore) Result {
	return callResult(&sigResultHandlePtrPtr, c.createSemaphore,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&semaphore)})
}

func (c *Commands) DestroySemaphore(device Device, semaphore Semaphore, allocator unsafe.Pointer) {
	if c.destroySemaphore == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&semaphore), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroySemaphore, nil, args[:])
}

// WaitSemaphores wraps vkWaitSemaphores (VK_KHR_timeline_semaphore /
// Vulkan 1.2), the primary wait path pending-frame tracking blocks on.
func (c *Commands) WaitSemaphores(device Device, waitInfo *SemaphoreWaitInfo, timeout uint64) Result {
	return callResult(&sigResultHandlePtrU64, c.waitSemaphores,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&waitInfo), unsafe.Pointer(&timeout)})
}

func (c *Commands) GetSemaphoreCounterValue(device Device, semaphore Semaphore, value *uint64) Result {
	return callResult(&sigResultHandlePtrPtr, c.getSemaphoreCounterValue,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&semaphore), unsafe.Pointer(&value)})
}

func (c *Commands) CreateCommandPool(device Device, createInfo *CommandPoolCreateInfo, allocator unsafe.Pointer, pool *CommandPool) Result {
	return callResult(&sigResultHandlePtrPtr, c.createCommandPool,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&pool)})
}

func (c *Commands) AllocateCommandBuffers(device Device, allocInfo *CommandBufferAllocateInfo, buffers *CommandBuffer) Result {
	return callResult(&sigResultHandlePtrPtr, c.allocateCommandBuffers,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&allocInfo), unsafe.Pointer(&buffers)})
}

func (c *Commands) BeginCommandBuffer(cb CommandBuffer, beginInfo *CommandBufferBeginInfo) Result {
	return callResult(&sigResultHandlePtrPtr, c.beginCommandBuffer,
		[]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&beginInfo), nil})
}

func (c *Commands) EndCommandBuffer(cb CommandBuffer) Result {
	if c.endCommandBuffer == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [1]unsafe.Pointer{unsafe.Pointer(&cb)}
	_ = ffi.CallFunction(&sigVoidHandle, c.endCommandBuffer, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) ResetCommandBuffer(cb CommandBuffer, flags uint32) Result {
	return callResult(&sigResultHandlePtrPtr, c.resetCommandBuffer,
		[]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&flags), nil})
}

func (c *Commands) CmdPipelineBarrier2(cb CommandBuffer, depInfo *DependencyInfo) {
	if c.cmdPipelineBarrier2 == nil {
		return
	}
	args := [2]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&depInfo)}
	_ = ffi.CallFunction(&sigVoidHandlePtr, c.cmdPipelineBarrier2, nil, args[:])
}

func (c *Commands) CmdBeginRendering(cb CommandBuffer, info *RenderingInfo) {
	if c.cmdBeginRendering == nil {
		return
	}
	args := [2]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&info)}
	_ = ffi.CallFunction(&sigVoidHandlePtr, c.cmdBeginRendering, nil, args[:])
}

func (c *Commands) CmdEndRendering(cb CommandBuffer) {
	if c.cmdEndRendering == nil {
		return
	}
	args := [1]unsafe.Pointer{unsafe.Pointer(&cb)}
	_ = ffi.CallFunction(&sigVoidHandle, c.cmdEndRendering, nil, args[:])
}

func (c *Commands) CmdCopyBufferToImage(cb CommandBuffer, buffer Buffer, image Image, layout ImageLayout, regionCount uint32, regions *BufferImageCopy) {
	if c.cmdCopyBufferToImage == nil {
		return
	}
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&cb), unsafe.Pointer(&buffer), unsafe.Pointer(&image),
		unsafe.Pointer(&layout), unsafe.Pointer(&regionCount), unsafe.Pointer(&regions),
	}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.cmdCopyBufferToImage, nil, args[:])
}

func (c *Commands) CmdBindPipeline(cb CommandBuffer, bindPoint int32, pipeline Pipeline) {
	if c.cmdBindPipeline == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&bindPoint), unsafe.Pointer(&pipeline)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.cmdBindPipeline, nil, args[:])
}

func (c *Commands) CmdPushDescriptorSetKHR(cb CommandBuffer, bindPoint int32, layout PipelineLayout, set uint32, writeCount uint32, writes *WriteDescriptorSet) {
	if c.cmdPushDescriptorSetKHR == nil {
		return
	}
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&cb), unsafe.Pointer(&bindPoint), unsafe.Pointer(&layout),
		unsafe.Pointer(&set), unsafe.Pointer(&writeCount), unsafe.Pointer(&writes),
	}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.cmdPushDescriptorSetKHR, nil, args[:])
}

func (c *Commands) CmdDraw(cb CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if c.cmdDraw == nil {
		return
	}
	args := [5]unsafe.Pointer{
		unsafe.Pointer(&cb), unsafe.Pointer(&vertexCount), unsafe.Pointer(&instanceCount),
		unsafe.Pointer(&firstVertex), unsafe.Pointer(&firstInstance),
	}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.cmdDraw, nil, args[:])
}

func (c *Commands) QueueSubmit2(queue Queue, submitCount uint32, submits *SubmitInfo2, fence Fence) Result {
	if c.queueSubmit2 == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [4]unsafe.Pointer{unsafe.Pointer(&queue), unsafe.Pointer(&submitCount), unsafe.Pointer(&submits), unsafe.Pointer(&fence)}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.queueSubmit2, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) DeviceWaitIdle(device Device) Result {
	if c.deviceWaitIdle == nil {
		return ErrorExtensionNotPresent
	}
	var result int32
	args := [1]unsafe.Pointer{unsafe.Pointer(&device)}
	_ = ffi.CallFunction(&sigVoidHandle, c.deviceWaitIdle, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) GetPhysicalDeviceFormatProperties2(phys PhysicalDevice, format Format, props *FormatProperties2) {
	if c.getPhysicalDeviceFormatProperties2 == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&phys), unsafe.Pointer(&format), unsafe.Pointer(&props)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.getPhysicalDeviceFormatProperties2, nil, args[:])
}

func (c *Commands) GetPhysicalDeviceQueueFamilyProperties(phys PhysicalDevice, count *uint32, props unsafe.Pointer) {
	if c.getPhysicalDeviceQueueFamilyProperties == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&phys), unsafe.Pointer(&count), unsafe.Pointer(&props)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.getPhysicalDeviceQueueFamilyProperties, nil, args[:])
}

func (c *Commands) CreateImageView(device Device, createInfo *ImageViewCreateInfo, allocator unsafe.Pointer, view *ImageView) Result {
	return callResult(&sigResultHandlePtrPtr, c.createImageView,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&view)})
}

func (c *Commands) DestroyImageView(device Device, view ImageView, allocator unsafe.Pointer) {
	if c.destroyImageView == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&view), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyImageView, nil, args[:])
}

func (c *Commands) CreateShaderModule(device Device, createInfo *ShaderModuleCreateInfo, allocator unsafe.Pointer, module *ShaderModule) Result {
	return callResult(&sigResultHandlePtrPtr, c.createShaderModule,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&module)})
}

func (c *Commands) DestroyShaderModule(device Device, module ShaderModule, allocator unsafe.Pointer) {
	if c.destroyShaderModule == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&module), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyShaderModule, nil, args[:])
}

func (c *Commands) CreateDescriptorSetLayout(device Device, createInfo *DescriptorSetLayoutCreateInfo, allocator unsafe.Pointer, layout *DescriptorSetLayout) Result {
	return callResult(&sigResultHandlePtrPtr, c.createDescriptorSetLayout,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&layout)})
}

func (c *Commands) DestroyDescriptorSetLayout(device Device, layout DescriptorSetLayout, allocator unsafe.Pointer) {
	if c.destroyDescriptorSetLayout == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&layout), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyDescriptorSetLayout, nil, args[:])
}

func (c *Commands) CreatePipelineLayout(device Device, createInfo *PipelineLayoutCreateInfo, allocator unsafe.Pointer, layout *PipelineLayout) Result {
	return callResult(&sigResultHandlePtrPtr, c.createPipelineLayout,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&layout)})
}

// CreateGraphicsPipelines always passes VK_NULL_HANDLE for the pipeline
// cache and a single create-info entry: both pipelines this compositor
// needs (fill-rect, copy-texture) are created once, lazily, and kept for
// the context's lifetime, so there's no benefit to batching or caching
// across process runs.
func (c *Commands) CreateGraphicsPipelines(device Device, createInfo *GraphicsPipelineCreateInfo, allocator unsafe.Pointer, pipeline *Pipeline) Result {
	if c.createGraphicsPipelines == nil {
		return ErrorExtensionNotPresent
	}
	var cache uint64
	count := uint32(1)
	var result int32
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&device), unsafe.Pointer(&cache), unsafe.Pointer(&count),
		unsafe.Pointer(&createInfo), unsafe.Pointer(&allocator), unsafe.Pointer(&pipeline),
	}
	_ = ffi.CallFunction(&sigResultHandleU64U32PtrPtrPtr, c.createGraphicsPipelines, unsafe.Pointer(&result), args[:])
	return Result(result)
}

func (c *Commands) DestroyPipeline(device Device, pipeline Pipeline, allocator unsafe.Pointer) {
	if c.destroyPipeline == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&pipeline), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyPipeline, nil, args[:])
}

func (c *Commands) DestroyPipelineLayout(device Device, layout PipelineLayout, allocator unsafe.Pointer) {
	if c.destroyPipelineLayout == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&layout), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroyPipelineLayout, nil, args[:])
}

func (c *Commands) CreateSampler(device Device, createInfo *SamplerCreateInfo, allocator unsafe.Pointer, sampler *Sampler) Result {
	return callResult(&sigResultHandlePtrPtr, c.createSampler,
		[]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&createInfo), unsafe.Pointer(&sampler)})
}

func (c *Commands) DestroySampler(device Device, sampler Sampler, allocator unsafe.Pointer) {
	if c.destroySampler == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&device), unsafe.Pointer(&sampler), unsafe.Pointer(&allocator)}
	_ = ffi.CallFunction(&sigVoidHandleHandlePtr, c.destroySampler, nil, args[:])
}

func (c *Commands) CmdSetViewportWithCount(cb CommandBuffer, count uint32, viewports *Viewport) {
	if c.cmdSetViewportWithCount == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&count), unsafe.Pointer(&viewports)}
	_ = ffi.CallFunction(&sigVoidHandleU32Ptr, c.cmdSetViewportWithCount, nil, args[:])
}

func (c *Commands) CmdSetScissorWithCount(cb CommandBuffer, count uint32, scissors *Rect2D) {
	if c.cmdSetScissorWithCount == nil {
		return
	}
	args := [3]unsafe.Pointer{unsafe.Pointer(&cb), unsafe.Pointer(&count), unsafe.Pointer(&scissors)}
	_ = ffi.CallFunction(&sigVoidHandleU32Ptr, c.cmdSetScissorWithCount, nil, args[:])
}

func (c *Commands) CmdPushConstants(cb CommandBuffer, layout PipelineLayout, stage ShaderStageFlags, offset, size uint32, values unsafe.Pointer) {
	if c.cmdPushConstants == nil {
		return
	}
	args := [6]unsafe.Pointer{
		unsafe.Pointer(&cb), unsafe.Pointer(&layout), unsafe.Pointer(&stage),
		unsafe.Pointer(&offset), unsafe.Pointer(&size), unsafe.Pointer(&values),
	}
	_ = ffi.CallFunction(&sigVoidHandleU32PtrPtr, c.cmdPushConstants, nil, args[:])
}
