package vk

import (
	"fmt"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Signature templates reused across functions that share a parameter
// shape — there are far fewer distinct C signatures in this subset than
// there are functions.
var (
	sigResultPtrPtrPtr      types.CallInterface // VkResult(ptr,ptr,ptr) - vkCreateInstance, vkCreateDevice
	sigResultHandlePtrPtr   types.CallInterface // VkResult(handle,ptr,ptr) - vkCreate{Image,Buffer,Semaphore,Fence,CommandPool}
	sigResultHandleU32PtrPtr types.CallInterface // VkResult(handle,u32,ptr,ptr) - vkEnumeratePhysicalDevices
	sigVoidHandlePtr        types.CallInterface // void(handle,ptr) - vkDestroy*
	sigVoidHandleHandlePtr  types.CallInterface // void(handle,handle,ptr) - vkDestroy{Image,Buffer,...}(device,obj,alloc)
	sigResultHandlePtrU64   types.CallInterface // VkResult(handle,ptr,u64) - vkWaitSemaphores
	sigResultHandlePtr      types.CallInterface // VkResult(handle,ptr) - vkBindImageMemory2-ish/vkMapMemory variants
	sigVoidHandlePtrPtr     types.CallInterface // void(handle,ptr,ptr) - vkGetImageMemoryRequirements2
	sigResultHandleU64U64PtrPtr types.CallInterface // VkResult(handle,u64,u64,ptr,ptr) - vkMapMemory
	sigVoidHandle           types.CallInterface // void(handle) - vkUnmapMemory
	sigVoidHandlePtrU32Ptr  types.CallInterface // void(handle,ptr,u32,ptr) - vkCmdPipelineBarrier2-style single ptr
	sigResultHandlePtrHandle types.CallInterface // VkResult(handle,ptr,handle) - vkGetMemoryFdKHR style w/ output ptr swapped
	sigVoidHandleU32Ptr     types.CallInterface // void(handle,u32,ptr) - vkCmdPushDescriptorSetKHR without set
	sigVoidHandleU32PtrPtr  types.CallInterface // void(handle,u32,ptr,ptr) - vkGetPhysicalDeviceQueueFamilyProperties
	sigResultHandleU64U32PtrPtrPtr types.CallInterface // VkResult(handle,u64,u32,ptr,ptr,ptr) - vkCreateGraphicsPipelines
	sigVoidHandleU32U32Ptr  types.CallInterface // void(handle,u32,u32,ptr) - vkCmdSetViewport/vkCmdSetScissor
)

func prep(ci *types.CallInterface, ret *types.TypeDescriptor, args ...*types.TypeDescriptor) error {
	return ffi.PrepareCallInterface(ci, types.DefaultCall, ret, args)
}

// InitSignatures prepares every CallInterface template this package
// reuses. Called once from Init.
func InitSignatures() error {
	p := types.PointerTypeDescriptor
	u32 := types.UInt32TypeDescriptor
	u64 := types.UInt64TypeDescriptor
	vResult := types.Int32TypeDescriptor
	vVoid := types.VoidTypeDescriptor

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"ResultPtrPtrPtr", func() error { return prep(&sigResultPtrPtrPtr, vResult, p, p, p) }},
		{"ResultHandlePtrPtr", func() error { return prep(&sigResultHandlePtrPtr, vResult, u64, p, p) }},
		{"ResultHandleU32PtrPtr", func() error { return prep(&sigResultHandleU32PtrPtr, vResult, u64, u32, p, p) }},
		{"VoidHandlePtr", func() error { return prep(&sigVoidHandlePtr, vVoid, u64, p) }},
		{"VoidHandleHandlePtr", func() error { return prep(&sigVoidHandleHandlePtr, vVoid, u64, u64, p) }},
		{"ResultHandlePtrU64", func() error { return prep(&sigResultHandlePtrU64, vResult, u64, p, u64) }},
		{"ResultHandlePtr", func() error { return prep(&sigResultHandlePtr, vResult, u64, p) }},
		{"VoidHandlePtrPtr", func() error { return prep(&sigVoidHandlePtrPtr, vVoid, u64, p, p) }},
		{"ResultHandleU64U64PtrPtr", func() error { return prep(&sigResultHandleU64U64PtrPtr, vResult, u64, u64, u64, p, p) }},
		{"VoidHandle", func() error { return prep(&sigVoidHandle, vVoid, u64) }},
		{"VoidHandlePtrU32Ptr", func() error { return prep(&sigVoidHandlePtrU32Ptr, vVoid, u64, p, u32, p) }},
		{"ResultHandlePtrHandle", func() error { return prep(&sigResultHandlePtrHandle, vResult, u64, p, u64) }},
		{"VoidHandleU32Ptr", func() error { return prep(&sigVoidHandleU32Ptr, vVoid, u64, u32, p) }},
		{"VoidHandleU32PtrPtr", func() error { return prep(&sigVoidHandleU32PtrPtr, vVoid, u64, u32, p, p) }},
		{"ResultHandleU64U32PtrPtrPtr", func() error {
			return prep(&sigResultHandleU64U32PtrPtrPtr, vResult, u64, u64, u32, p, p, p)
		}},
		{"VoidHandleU32U32Ptr", func() error { return prep(&sigVoidHandleU32U32Ptr, vVoid, u64, u32, u32, p) }},
	} {
		if err := step.fn(); err != nil {
			return fmt.Errorf("vk: prepare signature %s: %w", step.name, err)
		}
	}
	return nil
}
