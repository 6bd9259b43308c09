package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/gpu/vulkan/vk"
)

func createInstance(cmds *vk.Commands, appName string) (vk.Instance, error) {
	if appName == "" {
		appName = "compositor"
	}
	name := cstr(appName)
	appInfo := vk.ApplicationInfo{
		SType:            vk.StructureTypeApplicationInfo,
		PApplicationName: &name[0],
		ApiVersion:       (1 << 22) | (2 << 12), // VK_API_VERSION_1_2
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}
	var instance vk.Instance
	if res := cmds.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return 0, gpu.NewError(gpu.KindDevicePermanent, "create_instance", fmt.Errorf("vkCreateInstance: %s", res))
	}
	return instance, nil
}

func cstr(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// pickPhysicalDevice enumerates adapters and selects the first one. It
// does not match against Options.PreferredRenderNode or any DRM
// render-node property.
func pickPhysicalDevice(cmds *vk.Commands, instance vk.Instance) (vk.PhysicalDevice, error) {
	var count uint32
	if res := cmds.EnumeratePhysicalDevices(instance, &count, nil); res != vk.Success || count == 0 {
		return 0, gpu.NewError(gpu.KindDevicePermanent, "pick_physical_device", fmt.Errorf("vkEnumeratePhysicalDevices: %s (count=%d)", res, count))
	}
	devices := make([]vk.PhysicalDevice, count)
	if res := cmds.EnumeratePhysicalDevices(instance, &count, &devices[0]); res != vk.Success {
		return 0, gpu.NewError(gpu.KindDevicePermanent, "pick_physical_device", fmt.Errorf("vkEnumeratePhysicalDevices: %s", res))
	}
	return devices[0], nil
}

// createDevice picks the first queue family advertising graphics support
// (the transfer bit is not checked) and creates a logical device with the dma-buf/
// modifier/sync2/dynamic-rendering/push-descriptor/timeline-semaphore
// extension set enabled.
func createDevice(cmds *vk.Commands, phys vk.PhysicalDevice) (vk.Device, uint32, error) {
	var count uint32
	cmds.GetPhysicalDeviceQueueFamilyProperties(phys, &count, nil)
	if count == 0 {
		return 0, 0, gpu.NewError(gpu.KindDevicePermanent, "create_device", fmt.Errorf("no queue families reported"))
	}
	// Layout matches VkQueueFamilyProperties: queueFlags,count,timestampValidBits,minImageTransferGranularity(3xu32).
	type queueFamilyProps struct {
		Flags                       vk.QueueFlags
		Count                       uint32
		TimestampValidBits          uint32
		MinImageTransferGranularity [3]uint32
	}
	families := make([]queueFamilyProps, count)
	cmds.GetPhysicalDeviceQueueFamilyProperties(phys, &count, unsafe.Pointer(&families[0]))

	family := -1
	for i, f := range families {
		if f.Flags&vk.QueueGraphics != 0 {
			family = i
			break
		}
	}
	if family < 0 {
		return 0, 0, gpu.NewError(gpu.KindDevicePermanent, "create_device", fmt.Errorf("no graphics-capable queue family"))
	}

	priority := float32(1.0)
	queueInfo := vk.DeviceQueueCreateInfo{
		SType: vk.StructureTypeDeviceQueueCreateInfo, QueueFamilyIndex: uint32(family),
		QueueCount: 1, PQueuePriorities: &priority,
	}

	extPtrs := make([]*byte, len(requiredDeviceExtensions))
	for i, ext := range requiredDeviceExtensions {
		b := []byte(ext)
		extPtrs[i] = &b[0]
	}

	var dynamicRendering vk.PhysicalDeviceDynamicRenderingFeatures
	dynamicRendering.SType = vk.StructureTypePhysicalDeviceDynamicRenderingFeatures
	dynamicRendering.DynamicRendering = 1
	var timelineSem vk.PhysicalDeviceTimelineSemaphoreFeatures
	timelineSem.SType = vk.StructureTypePhysicalDeviceTimelineSemaphoreFeatures
	timelineSem.TimelineSemaphore = 1
	dynamicRendering.PNext = unsafe.Pointer(&timelineSem)

	createInfo := vk.DeviceCreateInfo{
		SType: vk.StructureTypeDeviceCreateInfo, PNext: unsafe.Pointer(&dynamicRendering),
		QueueCreateInfoCount: 1, PQueueCreateInfos: &queueInfo,
		EnabledExtensionCount: uint32(len(extPtrs)), PpEnabledExtensionNames: &extPtrs[0],
	}

	var device vk.Device
	if res := cmds.CreateDevice(phys, &createInfo, nil, &device); res != vk.Success {
		return 0, 0, gpu.NewError(gpu.KindDevicePermanent, "create_device", fmt.Errorf("vkCreateDevice: %s", res))
	}
	return device, uint32(family), nil
}
