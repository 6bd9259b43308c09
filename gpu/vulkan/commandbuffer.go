package vulkan

import (
	"fmt"

	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/gpu/vulkan/vk"
)

// beginOneShot allocates and begins a single-use primary command buffer
// from the context's pool. Used by both the shm-upload path (one copy
// per completed upload) and the renderer (one buffer per execute() call).
func (c *Context) beginOneShot() (vk.CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType: vk.StructureTypeCommandBufferAllocateInfo, CommandPool: c.cmdPool, CommandBufferCount: 1,
	}
	var cb vk.CommandBuffer
	if res := c.cmds.AllocateCommandBuffers(c.device, &allocInfo, &cb); res != vk.Success {
		return 0, gpu.NewError(gpu.KindDeviceTransient, "begin_one_shot", fmt.Errorf("vkAllocateCommandBuffers: %s", res))
	}
	beginInfo := vk.CommandBufferBeginInfo{SType: vk.StructureTypeCommandBufferBeginInfo, Flags: vk.CommandBufferUsageOneTimeSubmit}
	if res := c.cmds.BeginCommandBuffer(cb, &beginInfo); res != vk.Success {
		return 0, gpu.NewError(gpu.KindDeviceTransient, "begin_one_shot", fmt.Errorf("vkBeginCommandBuffer: %s", res))
	}
	return cb, nil
}

// endOneShotAndWait ends, submits, and blocks on cb's completion via the
// context's timeline semaphore. Used by the shm-upload path, where the
// completion callback must not fire before the GPU copy has finished.
func (c *Context) endOneShotAndWait(cb vk.CommandBuffer) error {
	if res := c.cmds.EndCommandBuffer(cb); res != vk.Success {
		return gpu.NewError(gpu.KindDeviceTransient, "end_one_shot", fmt.Errorf("vkEndCommandBuffer: %s", res))
	}

	value := c.frames.LastCompleted() + 1
	cbInfo := vk.CommandBufferSubmitInfo{SType: vk.StructureTypeCommandBufferSubmitInfo, CommandBuffer: cb}
	signalInfo := vk.SemaphoreSubmitInfo{SType: vk.StructureTypeSemaphoreSubmitInfo, Semaphore: c.timeline, Value: value, StageMask: vk.PipelineStage2AllCommands}
	submit := vk.SubmitInfo2{
		SType: vk.StructureTypeSubmitInfo2,
		CommandBufferInfoCount: 1, PCommandBufferInfos: &cbInfo,
		SignalSemaphoreInfoCount: 1, PSignalSemaphoreInfos: &signalInfo,
	}
	if res := c.cmds.QueueSubmit2(c.queue, 1, &submit, 0); res != vk.Success {
		return gpu.NewError(gpu.KindDeviceTransient, "end_one_shot", fmt.Errorf("vkQueueSubmit2: %s", res))
	}

	waitValues := []uint64{value}
	waitSemaphores := []vk.Semaphore{c.timeline}
	waitInfo := vk.SemaphoreWaitInfo{SemaphoreCount: 1, PSemaphores: &waitSemaphores[0], PValues: &waitValues[0]}
	if res := c.cmds.WaitSemaphores(c.device, &waitInfo, ^uint64(0)); res != vk.Success {
		return gpu.NewError(gpu.KindDeviceTransient, "end_one_shot", fmt.Errorf("vkWaitSemaphores: %s", res))
	}
	c.frames.Signal(value)
	return nil
}
