package renderer

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipelineLayout creates the bind group layouts for descriptors and the pipeline layout
// holding them.
func (b *wgpuRendererBackendImpl) pipelineLayout(label string, descriptors map[int]wgpu.BindGroupLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	groups, err := b.createBindGroupLayouts(descriptors)
	if err != nil {
		return nil, err
	}
	return b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: groups,
	})
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertex, fragment := p.Shader(shader.ShaderTypeVertex), p.Shader(shader.ShaderTypeFragment)
	if vertex == nil || fragment == nil {
		return pipeline.ErrMissingShader
	}

	vs, err := b.device.CreateShaderModule(vertex.Module())
	if err != nil {
		return fmt.Errorf("vertex module %s: %w", vertex.Key(), err)
	}
	// both stages usually live in one file
	fs := vs
	if fragment.Source() != vertex.Source() {
		if fs, err = b.device.CreateShaderModule(fragment.Module()); err != nil {
			return fmt.Errorf("fragment module %s: %w", fragment.Key(), err)
		}
	}

	layout, err := b.pipelineLayout(p.PipelineKey(),
		mergeBindGroupLayouts(vertex.BindGroupLayoutDescriptors(), fragment.BindGroupLayoutDescriptors()))
	if err != nil {
		return err
	}

	state := p.State()
	target := wgpu.ColorTargetState{Format: b.surfaceFormat, WriteMask: state.WriteMask, Blend: state.Blend}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " render",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertex.EntryPoint(),
			Buffers:    vertex.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragment.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  state.Topology,
			FrontFace: state.FrontFace,
			CullMode:  state.CullMode,
		},
		Multisample:  wgpu.MultisampleState{Count: uint32(b.sampleCount), Mask: 0xFFFFFFFF},
		DepthStencil: depthStencilState(state),
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) RegisterComputePipeline(p pipeline.Pipeline) error {
	compute := p.Shader(shader.ShaderTypeCompute)
	if compute == nil {
		return pipeline.ErrMissingShader
	}

	module, err := b.device.CreateShaderModule(compute.Module())
	if err != nil {
		return fmt.Errorf("compute module %s: %w", compute.Key(), err)
	}
	layout, err := b.pipelineLayout(p.PipelineKey(), compute.BindGroupLayoutDescriptors())
	if err != nil {
		return err
	}

	created, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   p.PipelineKey() + " compute",
		Layout:  layout,
		Compute: wgpu.ProgrammableStageDescriptor{Module: module, EntryPoint: compute.EntryPoint()},
	})
	if err != nil {
		return err
	}
	p.SetComputePipeline(created)
	return nil
}

// createBindGroupLayouts creates one layout per group from 0 to the highest group in
// descriptors. Gaps get an empty layout.
func (b *wgpuRendererBackendImpl) createBindGroupLayouts(descriptors map[int]wgpu.BindGroupLayoutDescriptor) ([]*wgpu.BindGroupLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, groupCount(descriptors))
	for g := range layouts {
		desc := descriptors[g]
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return nil, fmt.Errorf("bind group layout %d: %w", g, err)
		}
		layouts[g] = layout
	}
	return layouts, nil
}

// depthStencilState builds the depth state of a render pipeline. Every pass carries a
// depth attachment, so a pipeline without depth testing still declares one that always
// passes and never writes.
func depthStencilState(state pipeline.RenderState) *wgpu.DepthStencilState {
	ds := &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: state.DepthWrite,
		DepthCompare:      state.DepthCompare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
	if !state.DepthTest {
		ds.DepthCompare = wgpu.CompareFunctionAlways
		ds.DepthWriteEnabled = false
	}
	return ds
}

// groupCount returns one past the highest group index in descriptors, or 0 when empty.
func groupCount(descriptors map[int]wgpu.BindGroupLayoutDescriptor) int {
	n := 0
	for g := range descriptors {
		n = max(n, g+1)
	}
	return n
}

// mergeBindGroupLayouts combines the vertex and fragment stage layouts of a render
// pipeline. A binding declared by both stages keeps the vertex entry with both
// visibility flags; merged groups have their entries sorted by binding.
//
// Parameters:
//   - vertexLayouts: descriptors reflected from the vertex shader
//   - fragmentLayouts: descriptors reflected from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(vertexLayouts)+len(fragmentLayouts))
	for g, desc := range vertexLayouts {
		merged[g] = desc
	}

	for g, frag := range fragmentLayouts {
		vert, shared := merged[g]
		if !shared {
			merged[g] = frag
			continue
		}

		byBinding := make(map[uint32]wgpu.BindGroupLayoutEntry, len(vert.Entries)+len(frag.Entries))
		for _, e := range vert.Entries {
			byBinding[e.Binding] = e
		}
		for _, e := range frag.Entries {
			if prev, ok := byBinding[e.Binding]; ok {
				prev.Visibility |= e.Visibility
				e = prev
			}
			byBinding[e.Binding] = e
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: vert.Label, Entries: entries}
	}
	return merged
}
