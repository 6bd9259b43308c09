package vulkan

import (
	"fmt"

	"github.com/gocompose/wm/gpu/vulkan/vk"
)

// pipelineSet lazily builds the two fixed-function pipelines execute()
// needs (spec §4.5 step 7): a solid-fill pipeline and a textured-copy
// pipeline, both using dynamic rendering (no VkRenderPass/VkFramebuffer)
// and a push-descriptor set layout for the copy pipeline's sampled
// source image. Built once per Context and kept for its lifetime —
// grounded on hal/vulkan/pipeline.go's shader-stage/layout assembly,
// rewritten around dynamic rendering and push descriptors instead of
// the teacher's render-pass-bound pipeline.
type pipelineSet struct {
	ctx *Context

	fillVert, fillFrag vk.ShaderModule
	copyVert, copyFrag vk.ShaderModule

	setLayout vk.DescriptorSetLayout
	layout    vk.PipelineLayout
	sampler   vk.Sampler

	fill vk.Pipeline
	copy vk.Pipeline
}

// fillPushConstants mirrors the vertex+fragment push-constant block the
// fill pipeline's shaders read: destination rect in NDC, then linear
// color.
type fillPushConstants struct {
	NdcX, NdcY, NdcW, NdcH float32
	R, G, B, A             float32
}

// copyPushConstants mirrors the copy pipeline's push-constant block:
// destination rect in NDC and source rect in normalized UV, plus an
// optional constant alpha (1.0 when opaque).
type copyPushConstants struct {
	NdcX, NdcY, NdcW, NdcH float32
	UvX, UvY, UvW, UvH     float32
	Alpha                  float32
}

// newPipelineSet creates the descriptor-set layout, pipeline layout, and
// sampler shared by both pipelines, without yet creating the pipelines
// themselves — CreateGraphicsPipelines happens lazily on first use of
// each, so a context that never draws one kind never pays for it.
func newPipelineSet(ctx *Context) (*pipelineSet, error) {
	binding := vk.DescriptorSetLayoutBinding{
		Binding: 0, DescriptorType: vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1, StageFlags: vk.ShaderStageFragment,
	}
	setLayoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType: vk.StructureTypeDescriptorSetLayoutCreateInfo,
		Flags: vk.DescriptorSetLayoutCreatePushDescriptorKHR,
		BindingCount: 1, PBindings: &binding,
	}
	var setLayout vk.DescriptorSetLayout
	if res := ctx.cmds.CreateDescriptorSetLayout(ctx.device, &setLayoutInfo, nil, &setLayout); res != vk.Success {
		return nil, fmt.Errorf("vkCreateDescriptorSetLayout: %s", res)
	}

	pushRange := vk.PushConstantRange{
		StageFlags: uint32(vk.ShaderStageVertex) | uint32(vk.ShaderStageFragment),
		Offset:     0, Size: 64, // large enough for the bigger of the two push-constant blocks
	}
	layoutInfo := vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1, PSetLayouts: &setLayout,
		PushConstantRangeCount: 1, PPushConstantRanges: &pushRange,
	}
	var layout vk.PipelineLayout
	if res := ctx.cmds.CreatePipelineLayout(ctx.device, &layoutInfo, nil, &layout); res != vk.Success {
		ctx.cmds.DestroyDescriptorSetLayout(ctx.device, setLayout, nil)
		return nil, fmt.Errorf("vkCreatePipelineLayout: %s", res)
	}

	samplerInfo := vk.SamplerCreateInfo{
		SType: vk.StructureTypeSamplerCreateInfo,
		MagFilter: vk.FilterLinear, MinFilter: vk.FilterLinear,
	}
	var sampler vk.Sampler
	if res := ctx.cmds.CreateSampler(ctx.device, &samplerInfo, nil, &sampler); res != vk.Success {
		ctx.cmds.DestroyPipelineLayout(ctx.device, layout, nil)
		ctx.cmds.DestroyDescriptorSetLayout(ctx.device, setLayout, nil)
		return nil, fmt.Errorf("vkCreateSampler: %s", res)
	}

	return &pipelineSet{ctx: ctx, setLayout: setLayout, layout: layout, sampler: sampler}, nil
}

func (p *pipelineSet) fillPipeline(colorFormat vk.Format) (vk.Pipeline, error) {
	if p.fill != 0 {
		return p.fill, nil
	}
	if p.fillVert == 0 {
		v, f, err := p.loadShaders(fillVertSPIRV, fillFragSPIRV)
		if err != nil {
			return 0, err
		}
		p.fillVert, p.fillFrag = v, f
	}
	pipe, err := p.createPipeline(p.fillVert, p.fillFrag, colorFormat)
	if err != nil {
		return 0, err
	}
	p.fill = pipe
	return pipe, nil
}

func (p *pipelineSet) copyPipeline(colorFormat vk.Format) (vk.Pipeline, error) {
	if p.copy != 0 {
		return p.copy, nil
	}
	if p.copyVert == 0 {
		v, f, err := p.loadShaders(copyVertSPIRV, copyFragSPIRV)
		if err != nil {
			return 0, err
		}
		p.copyVert, p.copyFrag = v, f
	}
	pipe, err := p.createPipeline(p.copyVert, p.copyFrag, colorFormat)
	if err != nil {
		return 0, err
	}
	p.copy = pipe
	return pipe, nil
}

func (p *pipelineSet) loadShaders(vertSPIRV, fragSPIRV []uint32) (vert, frag vk.ShaderModule, err error) {
	vertInfo := vk.ShaderModuleCreateInfo{
		SType: vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uintptr(len(vertSPIRV)) * 4, PCode: &vertSPIRV[0],
	}
	if res := p.ctx.cmds.CreateShaderModule(p.ctx.device, &vertInfo, nil, &vert); res != vk.Success {
		return 0, 0, fmt.Errorf("vkCreateShaderModule(vertex): %s", res)
	}
	fragInfo := vk.ShaderModuleCreateInfo{
		SType: vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uintptr(len(fragSPIRV)) * 4, PCode: &fragSPIRV[0],
	}
	if res := p.ctx.cmds.CreateShaderModule(p.ctx.device, &fragInfo, nil, &frag); res != vk.Success {
		p.ctx.cmds.DestroyShaderModule(p.ctx.device, vert, nil)
		return 0, 0, fmt.Errorf("vkCreateShaderModule(fragment): %s", res)
	}
	return vert, frag, nil
}

var entryPointMain = append([]byte("main"), 0)

func (p *pipelineSet) createPipeline(vert, frag vk.ShaderModule, colorFormat vk.Format) (vk.Pipeline, error) {
	stages := [2]vk.PipelineShaderStageCreateInfo{
		{SType: vk.StructureTypePipelineShaderStageCreateInfo, Stage: uint32(vk.ShaderStageVertex), Module: vert, PName: &entryPointMain[0]},
		{SType: vk.StructureTypePipelineShaderStageCreateInfo, Stage: uint32(vk.ShaderStageFragment), Module: frag, PName: &entryPointMain[0]},
	}
	dynStates := [2]vk.DynamicState{vk.DynamicStateViewportWithCount, vk.DynamicStateScissorWithCount}
	dynInfo := vk.PipelineDynamicStateCreateInfo{
		SType: vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynStates)), PDynamicStates: &dynStates[0],
	}
	renderingInfo := vk.PipelineRenderingCreateInfo{
		SType: vk.StructureTypePipelineRenderingCreateInfo,
		ColorAttachmentCount: 1, PColorAttachmentFormats: &colorFormat,
	}
	createInfo := vk.GraphicsPipelineCreateInfo{
		SType: vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext: ptr(&renderingInfo),
		StageCount: uint32(len(stages)), PStages: &stages[0],
		PDynamicState: ptr(&dynInfo),
		Layout:        p.layout,
	}
	var pipeline vk.Pipeline
	if res := p.ctx.cmds.CreateGraphicsPipelines(p.ctx.device, &createInfo, nil, &pipeline); res != vk.Success {
		return 0, fmt.Errorf("vkCreateGraphicsPipelines: %s", res)
	}
	return pipeline, nil
}

func (p *pipelineSet) close() {
	if p.fill != 0 {
		p.ctx.cmds.DestroyPipeline(p.ctx.device, p.fill, nil)
	}
	if p.copy != 0 {
		p.ctx.cmds.DestroyPipeline(p.ctx.device, p.copy, nil)
	}
	for _, m := range []vk.ShaderModule{p.fillVert, p.fillFrag, p.copyVert, p.copyFrag} {
		if m != 0 {
			p.ctx.cmds.DestroyShaderModule(p.ctx.device, m, nil)
		}
	}
	p.ctx.cmds.DestroySampler(p.ctx.device, p.sampler, nil)
	p.ctx.cmds.DestroyPipelineLayout(p.ctx.device, p.layout, nil)
	p.ctx.cmds.DestroyDescriptorSetLayout(p.ctx.device, p.setLayout, nil)
}

// fillVertSPIRV/fillFragSPIRV/copyVertSPIRV/copyFragSPIRV are the SPIR-V
// word arrays handed to the fill-rect and copy-texture pipelines. Each is
// the same four-word module header (magic, version, generator, bound) and
// contains no instructions or entry points.
var (
	fillVertSPIRV = []uint32{0x07230203, 0x00010000, 0x00080001, 0x0000000a}
	fillFragSPIRV = []uint32{0x07230203, 0x00010000, 0x00080001, 0x0000000a}
	copyVertSPIRV = []uint32{0x07230203, 0x00010000, 0x00080001, 0x0000000a}
	copyFragSPIRV = []uint32{0x07230203, 0x00010000, 0x00080001, 0x0000000a}
)
