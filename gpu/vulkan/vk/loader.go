package vk

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// goffi's CallFunction convention: args[] holds pointers to where each
// argument VALUE is stored, never the value itself — including for
// arguments that are themselves C pointers. A `const char *name` argument
// is passed as args[i] = &namePtr, where namePtr already holds the
// string's address. Passing &data[0] directly for such an argument
// makes goffi read the string bytes as if they were a pointer.

var (
	vulkanLib             unsafe.Pointer
	vkGetInstanceProcAddr unsafe.Pointer
	vkGetDeviceProcAddr   unsafe.Pointer
	cifGetInstanceProcAddr types.CallInterface
	cifGetDeviceProcAddr   types.CallInterface

	initOnce sync.Once
	errInit  error
)

// Init loads libvulkan.so.1 and resolves the two proc-address getters
// every other entry point is loaded through. Safe to call more than
// once; only the first call does work.
func Init() error {
	initOnce.Do(func() { errInit = doInit() })
	return errInit
}

func doInit() error {
	var err error
	vulkanLib, err = ffi.LoadLibrary("libvulkan.so.1")
	if err != nil {
		return fmt.Errorf("vk: failed to load libvulkan.so.1: %w", err)
	}

	vkGetInstanceProcAddr, err = ffi.GetSymbol(vulkanLib, "vkGetInstanceProcAddr")
	if err != nil {
		return fmt.Errorf("vk: vkGetInstanceProcAddr not found: %w", err)
	}

	if err := ffi.PrepareCallInterface(&cifGetInstanceProcAddr, types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor}); err != nil {
		return fmt.Errorf("vk: prepare GetInstanceProcAddr interface: %w", err)
	}
	if err := ffi.PrepareCallInterface(&cifGetDeviceProcAddr, types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.UInt64TypeDescriptor, types.PointerTypeDescriptor}); err != nil {
		return fmt.Errorf("vk: prepare GetDeviceProcAddr interface: %w", err)
	}

	return InitSignatures()
}

// GetInstanceProcAddr resolves a global or instance-level function.
// Pass instance=0 for the handful of functions callable before an
// instance exists (vkCreateInstance, vkEnumerateInstanceVersion).
func GetInstanceProcAddr(instance Instance, name string) unsafe.Pointer {
	if vkGetInstanceProcAddr == nil {
		return nil
	}
	cname := make([]byte, len(name)+1)
	copy(cname, name)
	namePtr := unsafe.Pointer(&cname[0])

	var result unsafe.Pointer
	args := [2]unsafe.Pointer{
		unsafe.Pointer(&instance),
		unsafe.Pointer(&namePtr),
	}
	_ = ffi.CallFunction(&cifGetInstanceProcAddr, vkGetInstanceProcAddr, unsafe.Pointer(&result), args[:])
	return result
}

// SetDeviceProcAddr resolves vkGetDeviceProcAddr itself. Some drivers
// (notably Mesa's Intel Anv on older releases) return NULL for it from
// vkGetInstanceProcAddr(NULL, ...) and require a live instance handle.
func SetDeviceProcAddr(instance Instance) {
	if vkGetDeviceProcAddr == nil {
		vkGetDeviceProcAddr = GetInstanceProcAddr(instance, "vkGetDeviceProcAddr")
	}
}

// GetDeviceProcAddr resolves a device-level function. Device-level
// entry points should be loaded this way rather than via
// GetInstanceProcAddr — loader dispatch through the instance trampoline
// is measurably slower under high call volume.
func GetDeviceProcAddr(device Device, name string) unsafe.Pointer {
	if vkGetDeviceProcAddr == nil {
		vkGetDeviceProcAddr = GetInstanceProcAddr(0, "vkGetDeviceProcAddr")
		if vkGetDeviceProcAddr == nil {
			return nil
		}
	}
	cname := make([]byte, len(name)+1)
	copy(cname, name)
	namePtr := unsafe.Pointer(&cname[0])

	var result unsafe.Pointer
	args := [2]unsafe.Pointer{
		unsafe.Pointer(&device),
		unsafe.Pointer(&namePtr),
	}
	_ = ffi.CallFunction(&cifGetDeviceProcAddr, vkGetDeviceProcAddr, unsafe.Pointer(&result), args[:])
	return result
}

// Close releases libvulkan.so.1.
func Close() error {
	if vulkanLib != nil {
		err := ffi.FreeLibrary(vulkanLib)
		vulkanLib = nil
		vkGetInstanceProcAddr = nil
		vkGetDeviceProcAddr = nil
		return err
	}
	return nil
}
