package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shade/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Resources creates and updates the GPU objects a BindGroupProvider holds. Every method
// stores what it creates on the provider it is given.
type Resources interface {
	// InitMeshBuffers uploads a mesh. Pass nil indexData for a non-indexed mesh.
	//
	// Parameters:
	//   - provider: receives the vertex and index buffers
	//   - vertexData: raw vertex bytes
	//   - vertexCount: the number of vertices
	//   - indexData: raw uint32 indices, or nil
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: a buffer creation error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error

	// InitVertexBuffer creates an empty, writable vertex buffer of size bytes.
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error

	// WriteVertexBuffer overwrites part of the vertex buffer and sets the vertex count.
	// Writes past the end of the buffer fail.
	WriteVertexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte, vertexCount int) error

	// InitInstanceBuffer uploads the per-instance stream bound at vertex slot 1.
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, instanceCount int) error

	// InitBindGroup creates a buffer for every buffer entry in descriptor, then the bind
	// group itself. Texture views and samplers must already be on the provider.
	//
	// Parameters:
	//   - provider: receives the buffers, layout and bind group
	//   - descriptor: the layout, usually from Renderer.BindGroupLayoutDescriptor
	//   - usage: extra buffer usage flags by binding index, nil safe
	//   - sizes: buffer sizes by binding index, nil safe. Other buffers get the size the
	//     layout declares.
	//
	// Returns:
	//   - error: a buffer, layout or bind group creation error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, usage map[int]wgpu.BufferUsage, sizes map[int]uint64) error

	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues the writes in slice order.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// ReadBuffer copies a buffer back to the CPU, blocking until the GPU is done.
	//
	// Returns:
	//   - []byte: the buffer contents
	//   - error: a missing buffer or a failed map
	ReadBuffer(provider bind_group_provider.BindGroupProvider, binding int) ([]byte, error)
}

// FrameCycle is the per-frame command sequence: one compute submission, then one render
// pass, then the present.
type FrameCycle interface {
	// BeginComputeFrame opens the encoder every dispatch of the frame is recorded into.
	BeginComputeFrame() error

	// EndComputeFrame submits the dispatches.
	EndComputeFrame()

	// BeginFrame acquires the next swapchain image and opens the main render pass.
	//
	// Returns:
	//   - error: when the image is unavailable, as it briefly is while resizing
	BeginFrame() error

	// EndFrame closes the render pass and submits it. Present must follow.
	EndFrame()

	// Present shows the frame and releases the swapchain image.
	Present()
}

// Renderer owns the GPU device and a registry of pipelines keyed by PipelineKey. Scenes
// refer to pipelines by key when drawing or dispatching.
type Renderer interface {
	Resources
	FrameCycle

	// RegisterPipelines validates and creates each pipeline, then registers it under its
	// key. Keys already registered are skipped, so workers sharing a preset may each
	// register it.
	//
	// Returns:
	//   - error: the first validation or creation error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// BindGroupLayoutDescriptor returns the layout a registered pipeline expects at a
	// group. Render pipelines merge the entries of both stages.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout, empty when the group is unused
	//   - error: if the pipeline is not registered
	BindGroupLayoutDescriptor(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, error)

	// DispatchCompute records one compute pass in the current compute frame, with
	// computeProvider's bind group at group 0.
	//
	// Returns:
	//   - error: if pipelineKey is not a registered compute pipeline
	DispatchCompute(pipelineKey string, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error

	// DrawCall records one draw in the open render pass. The mesh's vertex stream binds at
	// slot 0 and its instance stream, if any, at slot 1. Indexed meshes draw indexed.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered render pipeline
	//   - meshProvider: the provider holding the vertex, index and instance streams
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are set in group order
	//
	// Returns:
	//   - error: if pipelineKey is not a registered render pipeline
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// Resize reconfigures the surface and its attachments.
	Resize(width, height int)
}

type renderer struct {
	RendererBackend
	pipelines pipelineRegistry
}

var _ Renderer = &renderer{}

// rendererOptions is what the builder options collect before the device exists.
type rendererOptions struct {
	fallbackAdapter bool
	msaa            MSAASampleCount
	presentMode     PresentMode
	clearColor      wgpu.Color
}

// NewRenderer creates the GPU device and configures a surface on window at the window's
// size. It panics if no adapter or device is available.
//
// Parameters:
//   - backendType: the GPU API
//   - window: the window presented to
//   - options: present mode, MSAA, clear color and adapter options
//
// Returns:
//   - Renderer: the renderer, with no pipelines registered
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	opts := rendererOptions{
		msaa:        MSAA4x,
		presentMode: PresentModeVSync,
		clearColor:  DefaultClearColor,
	}
	for _, opt := range options {
		opt(&opts)
	}

	r := &renderer{}
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.RendererBackend = newWGPURendererBackend(window.SurfaceDescriptor(), opts.fallbackAdapter, opts.msaa)
	}
	r.SetPresentMode(opts.presentMode)
	r.SetClearColor(opts.clearColor)
	r.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.ConfigureSurface(width, height)
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	return r.pipelines.register(pipelines, func(p pipeline.Pipeline) error {
		if p.Type() == pipeline.PipelineTypeCompute {
			return r.RegisterComputePipeline(p)
		}
		return r.RegisterRenderPipeline(p)
	})
}

func (r *renderer) BindGroupLayoutDescriptor(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, error) {
	p, ok := r.pipelines.get(pipelineKey)
	if !ok {
		return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("pipeline %q not registered", pipelineKey)
	}
	return pipelineBindGroupLayout(p, group), nil
}

func (r *renderer) DispatchCompute(pipelineKey string, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error {
	p, err := r.pipelines.lookup(pipelineKey, pipeline.PipelineTypeCompute)
	if err != nil {
		return err
	}
	r.RendererBackend.DispatchCompute(p, computeProvider, workGroupCount)
	return nil
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.pipelines.lookup(pipelineKey, pipeline.PipelineTypeRender)
	if err != nil {
		return err
	}
	r.RendererBackend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return nil
}

// pipelineBindGroupLayout resolves the layout of one group from the shaders of p.
func pipelineBindGroupLayout(p pipeline.Pipeline, group int) wgpu.BindGroupLayoutDescriptor {
	if p.Type() == pipeline.PipelineTypeCompute {
		if cs := p.Shader(shader.ShaderTypeCompute); cs != nil {
			return cs.BindGroupLayoutDescriptor(group)
		}
		return wgpu.BindGroupLayoutDescriptor{}
	}
	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	if vs == nil || fs == nil {
		return wgpu.BindGroupLayoutDescriptor{}
	}
	return mergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())[group]
}
