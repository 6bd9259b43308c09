// Package vk is a narrow, pure-Go Vulkan binding used only for the entry
// points this compositor's renderer, allocator, and dmabuf code need:
// instance/device/queue setup, memory allocation and import/export via
// VK_KHR_external_memory_fd, the DRM format modifier extension, timeline
// semaphores, dynamic rendering, and push descriptors. It intentionally
// does not bind VK_KHR_swapchain (DRM/KMS owns presentation here) or any
// WSI surface extension.
//
// Calls are dispatched through goffi, the same non-cgo FFI layer used
// elsewhere in this stack: every wrapper prepares a CallInterface once
// and reuses it, since goffi's argument convention requires a pointer to
// where each argument is stored rather than the value itself.
package vk

// Handles are non-dispatchable or dispatchable Vulkan objects. All are
// represented as raw integers; validity is the caller's responsibility,
// same as in C.
type (
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr
	Queue          uintptr
	CommandPool    uint64
	CommandBuffer  uintptr
	DeviceMemory   uint64
	Buffer         uint64
	Image          uint64
	ImageView      uint64
	Semaphore      uint64
	Fence          uint64
	ShaderModule   uint64
	Pipeline       uint64
	PipelineLayout uint64
	DescriptorSetLayout uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	Sampler             uint64
)

// Result mirrors VkResult. Values below zero are errors.
type Result int32

const (
	Success       Result = 0
	NotReady      Result = 1
	Timeout       Result = 2
	EventSet      Result = 3
	EventReset    Result = 4
	Incomplete    Result = 5
	ErrorOutOfHostMemory   Result = -1
	ErrorOutOfDeviceMemory Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorMemoryMapFailed      Result = -5
	ErrorExtensionNotPresent  Result = -7
	ErrorFeatureNotPresent    Result = -8
	ErrorTooManyObjects       Result = -10
	ErrorFormatNotSupported   Result = -11
)

func (r Result) String() string {
	switch r {
	case Success:
		return "VK_SUCCESS"
	case NotReady:
		return "VK_NOT_READY"
	case Timeout:
		return "VK_TIMEOUT"
	case ErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ErrorOutOfDeviceMemory:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case ErrorInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case ErrorDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case ErrorFormatNotSupported:
		return "VK_ERROR_FORMAT_NOT_SUPPORTED"
	default:
		return "VK_RESULT(" + itoa(int(r)) + ")"
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
