package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/gocompose/wm/gpu"
	"github.com/gocompose/wm/gpu/vulkan/memory"
	"github.com/gocompose/wm/gpu/vulkan/vk"
	"github.com/gocompose/wm/gpu/vulkan/worker"
)

// shmTexture implements gpu.ShmTexture: a sampled image whose contents
// are populated from client shared memory through a staging buffer
// rather than directly mapped (spec §4.4 — shm pages are untrusted and
// may be resized or unmapped by the client mid-copy, so the worker pool
// reads them into a private staging buffer before the GPU ever touches
// that memory).
type shmTexture struct {
	ctx   *Context
	img   *gpu.Image
	vimg  *vkImage
	shell *gpu.StagingShell

	busy bool
}

func (c *Context) ShmTexture(width, height uint32, format gpu.FourCC) (gpu.ShmTexture, error) {
	f, _ := c.table.Format(format)
	createInfo := vk.ImageCreateInfo{
		SType: vk.StructureTypeImageCreateInfo, ImageType: vk.ImageType2D, Format: vk.Format(f.Vk),
		Extent: vk.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels: 1, ArrayLayers: 1, Samples: vk.SampleCount1, Tiling: vk.ImageTilingOptimal,
		Usage: vk.ImageUsageSampled | vk.ImageUsageTransferDst, SharingMode: vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var image vk.Image
	if res := c.cmds.CreateImage(c.device, &createInfo, nil, &image); res != vk.Success {
		return nil, gpu.NewError(gpu.KindDeviceTransient, "shm_texture", fmt.Errorf("vkCreateImage: %s", res))
	}
	var reqs vk.MemoryRequirements
	c.cmds.GetImageMemoryRequirements(c.device, image, &reqs)
	memType, _ := firstSetBit(reqs.MemoryTypeBits)
	allocInfo := vk.MemoryAllocateInfo{SType: vk.StructureTypeMemoryAllocateInfo, AllocationSize: reqs.Size, MemoryTypeIndex: memType}
	var memHandle vk.DeviceMemory
	if res := c.cmds.AllocateMemory(c.device, &allocInfo, nil, &memHandle); res != vk.Success {
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "shm_texture", fmt.Errorf("vkAllocateMemory: %s", res))
	}
	if res := c.cmds.BindImageMemory(c.device, image, memHandle, 0); res != vk.Success {
		c.cmds.FreeMemory(c.device, memHandle, nil)
		c.cmds.DestroyImage(c.device, image, nil)
		return nil, gpu.NewError(gpu.KindDeviceTransient, "shm_texture", fmt.Errorf("vkBindImageMemory: %s", res))
	}

	vimg := &vkImage{handle: image, memory: memHandle, ctx: c}
	img := gpu.NewImage(width, height, f, vimg, c.release(vimg))
	img.Queue = gpu.Acquired(gpu.QueueFamilyGraphics)

	size := uint64(width) * uint64(height) * 4
	return &shmTexture{ctx: c, img: img, vimg: vimg, shell: gpu.NewStagingShell(size, true)}, nil
}

func (t *shmTexture) Image() *gpu.Image { return t.img }

func (t *shmTexture) ReadPixels() ([]byte, error) {
	return nil, gpu.NewError(gpu.KindContractViolation, "read_pixels", fmt.Errorf("shm textures are not readable (upload-only)"))
}

func (t *shmTexture) Dmabuf() (gpu.DmaBufDescriptor, bool) { return gpu.DmaBufDescriptor{}, false }

// AsyncUpload admits one in-flight upload at a time (gpu.ErrAsyncCopyBusy
// otherwise), materializes the staging shell on first use, copies the
// quantized damage rects off the worker pool, then issues the
// buffer-to-image GPU copy and invokes done once that copy's queue
// submission completes.
func (t *shmTexture) AsyncUpload(damage []gpu.Rect, backing gpu.ShmBacking, done func(error)) error {
	if t.busy {
		return gpu.ErrAsyncCopyBusy
	}
	t.busy = true

	staging, err := t.shell.Materialize(func(size uint64) (*gpu.StagingBuffer, error) {
		return t.ctx.alloc.AllocStagingBuffer(size, true)
	})
	if err != nil {
		t.busy = false
		return gpu.NewError(gpu.KindResourceExhaustion, "async_upload", err)
	}
	if err := staging.Acquire(); err != nil {
		t.busy = false
		return err
	}

	rects := quantizeDamage(damage, t.img.Width, t.img.Height, t.img.ContentsUndefined)

	t.ctx.uploadWorkers.Submit(func() {
		mapped := unsafe.Slice((*byte)(staging.Mapped), int(staging.Size))
		copyRectsIntoStaging(mapped, t.img.Width, rects, backing)

		cb, err := t.ctx.beginOneShot()
		if err != nil {
			staging.Release()
			t.busy = false
			done(err)
			return
		}
		regions := make([]vk.BufferImageCopy, len(rects))
		for i, r := range rects {
			regions[i] = vk.BufferImageCopy{
				BufferOffset: uint64(r.Y)*uint64(t.img.Width)*4 + uint64(r.X)*4,
				BufferRowLength: t.img.Width,
				ImageSubresource: vk.ImageSubresourceLayers{LayerCount: 1},
				ImageOffset: vk.Offset3D{X: r.X, Y: r.Y},
				ImageExtent: vk.Extent3D{Width: uint32(r.W), Height: uint32(r.H), Depth: 1},
			}
		}
		handle, _ := staging.Backend().(memory.StagingHandle)
		t.ctx.cmds.CmdCopyBufferToImage(cb, handle.Buffer(), t.vimg.handle, vk.ImageLayoutTransferDstOptimal, uint32(len(regions)), &regions[0])
		if err := t.ctx.endOneShotAndWait(cb); err != nil {
			staging.Release()
			t.busy = false
			done(err)
			return
		}

		t.img.ContentsUndefined = false
		staging.Release()
		t.busy = false
		done(nil)
	})
	return nil
}

// quantizeDamage expands damage to the whole image when contents are
// undefined (spec §4.4 step 1) and otherwise clips each rect to bounds.
func quantizeDamage(damage []gpu.Rect, w, h uint32, undefined bool) []gpu.Rect {
	if undefined {
		return []gpu.Rect{{X: 0, Y: 0, W: int32(w), H: int32(h)}}
	}
	out := make([]gpu.Rect, 0, len(damage))
	for _, r := range damage {
		x0, y0 := max32(r.X, 0), max32(r.Y, 0)
		x1, y1 := min32(r.X+r.W, int32(w)), min32(r.Y+r.H, int32(h))
		if x1 > x0 && y1 > y0 {
			out = append(out, gpu.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
		}
	}
	return out
}

func copyRectsIntoStaging(dst []byte, imgWidth uint32, rects []gpu.Rect, backing gpu.ShmBacking) {
	stride := backing.Stride
	if stride == 0 {
		stride = imgWidth * 4
	}
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			srcOff := int(backing.Offset) + int(uint32(y)*stride) + int(r.X*4)
			dstOff := int(uint32(y)*imgWidth*4) + int(r.X*4)
			n := int(r.W) * 4
			if srcOff+n > len(backing.Ptr) || dstOff+n > len(dst) {
				continue
			}
			copy(dst[dstOff:dstOff+n], backing.Ptr[srcOff:srcOff+n])
		}
	}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// defaultUploadWorkers is the fixed upload pool size (Options has no field
// to change it) — enough to overlap a handful of simultaneous client
// buffer commits without oversubscribing a typically small core count.
const defaultUploadWorkers = 2

func newUploadWorkers() *worker.Pool { return worker.New(defaultUploadWorkers) }
