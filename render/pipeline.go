package render

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL source for the composite pass.
//
//go:embed shaders/composite.wgsl
var compositeShaderSource string

// CompositeShaderSource returns the WGSL source for the composite shader.
func CompositeShaderSource() string {
	return compositeShaderSource
}

// CompositePipeline bundles every immutable GPU object of the composite
// pass: the compiled shader, the two bind group layouts, the pipeline
// layout, the render pipeline and a shared linear sampler. Construction
// is fatal on failure; a subsystem without its pipeline cannot render
// anything.
type CompositePipeline struct {
	device hal.Device

	shader       hal.ShaderModule
	viewLayout   hal.BindGroupLayout
	effectLayout hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.RenderPipeline
	sampler      hal.Sampler
}

// NewCompositePipeline compiles the composite shader and creates the
// render pipeline targeting a single-channel R8Unorm attachment.
//
// Group 0 holds the per-view uniform block, bound with a dynamic offset
// so every view shares one buffer. Group 1 holds the packed effect
// block. Blending accumulates bloom energy additively in alpha while
// the color channel composites over previous content.
func NewCompositePipeline(device hal.Device) (*CompositePipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	p := &CompositePipeline{device: device}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *CompositePipeline) create() error {
	spirvBytes, err := naga.Compile(compositeShaderSource)
	if err != nil {
		return fmt.Errorf("compile composite shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "composite_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create composite shader module: %w", err)
	}
	p.shader = shader

	// Group 0: per-view uniform, dynamic offset, shared buffer.
	viewLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "composite_view_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   viewUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create view bind group layout: %w", err)
	}
	p.viewLayout = viewLayout

	// Group 1: packed effect block, fragment only.
	effectLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "composite_effect_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: UniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create effect bind group layout: %w", err)
	}
	p.effectLayout = effectLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "composite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.viewLayout, p.effectLayout},
	})
	if err != nil {
		return fmt.Errorf("create composite pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrc,
			DstFactor: gputypes.BlendFactorOneMinusSrc,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "composite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			// Full-screen triangle: the vertex shader derives positions
			// from the vertex index, no buffers are bound.
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatR8Unorm,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create composite pipeline: %w", err)
	}
	p.pipeline = pipeline

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "composite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create composite sampler: %w", err)
	}
	p.sampler = sampler

	slogger().Info("composite pipeline created", "spirv_words", len(spirv))
	return nil
}

// Pipeline returns the render pipeline.
func (p *CompositePipeline) Pipeline() hal.RenderPipeline { return p.pipeline }

// ViewLayout returns the group 0 layout (per-view uniform).
func (p *CompositePipeline) ViewLayout() hal.BindGroupLayout { return p.viewLayout }

// EffectLayout returns the group 1 layout (effect uniform).
func (p *CompositePipeline) EffectLayout() hal.BindGroupLayout { return p.effectLayout }

// Sampler returns the shared linear clamp sampler. Downstream passes
// use it to sample the composite target.
func (p *CompositePipeline) Sampler() hal.Sampler { return p.sampler }

// Destroy releases all GPU objects in reverse creation order. Safe to
// call more than once.
func (p *CompositePipeline) Destroy() {
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.effectLayout != nil {
		p.device.DestroyBindGroupLayout(p.effectLayout)
		p.effectLayout = nil
	}
	if p.viewLayout != nil {
		p.device.DestroyBindGroupLayout(p.viewLayout)
		p.viewLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
