package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// stream is a vertex-rate buffer and the number of elements in it.
type stream struct {
	buf   *wgpu.Buffer
	count int
}

func (s *stream) release() {
	if s.buf != nil {
		s.buf.Release()
	}
	*s = stream{}
}

type bindGroupProvider struct {
	label string

	group  *wgpu.BindGroup
	layout *wgpu.BindGroupLayout

	// resources keyed by binding index
	buffers  map[int]*wgpu.Buffer
	views    map[int]*wgpu.TextureView
	samplers map[int]*wgpu.Sampler

	// vertex stream at slot 0, instance stream at slot 1; index.count drives DrawIndexed
	vertex   stream
	index    stream
	instance stream
}

// BindGroupProvider holds the GPU resources one component owns: a bind group with its
// buffers, texture views and samplers, and for meshes the vertex, index and instance
// buffers. The renderer fills it; the owning component only reads it back when drawing
// or dispatching.
//
// A camera, light, material, interactive mesh or storage arena each hold one:
//  1. the component creates it with a unique label
//  2. the scene calls Renderer.InitBindGroup with the layout reflected from the pipeline
//  3. uniform and storage updates go through Renderer.WriteBuffers
//  4. DrawCall and DispatchCompute read the bind group and streams from it
type BindGroupProvider interface {
	// Label names the provider in GPU debug labels and log lines.
	Label() string

	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout
	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// Buffer, TextureView and Sampler return the resource at a binding index, or nil.
	Buffer(binding int) *wgpu.Buffer
	TextureView(binding int) *wgpu.TextureView
	Sampler(binding int) *wgpu.Sampler

	// Buffers returns the live map of buffers keyed by binding index.
	Buffers() map[int]*wgpu.Buffer

	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)

	// VertexBuffer is bound at slot 0. VertexCount is drawn when there is no index buffer.
	VertexBuffer() *wgpu.Buffer
	VertexCount() int

	// IndexBuffer holds uint32 indices, or is nil for non-indexed meshes.
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	// InstanceBuffer is bound at slot 1 when set.
	InstanceBuffer() *wgpu.Buffer
	InstanceCount() int

	// SetVertexBuffer stores the vertex buffer and the number of vertices it holds.
	//
	// Parameters:
	//   - buf: the vertex buffer
	//   - count: the vertex count
	SetVertexBuffer(buf *wgpu.Buffer, count int)

	// SetVertexCount changes the vertex count without replacing the buffer, for buffers
	// that are rewritten in place.
	SetVertexCount(count int)

	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)

	// SetInstanceBuffer stores the instance buffer and the number of instances it holds.
	//
	// Parameters:
	//   - buf: the instance buffer
	//   - count: the instance count
	SetInstanceBuffer(buf *wgpu.Buffer, count int)

	// Release frees every GPU resource and resets the counts. The label is kept.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label for every GPU resource the renderer creates for it
//   - options: preset draw counts
//
// Returns:
//   - BindGroupProvider: the provider, with no GPU resources yet
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:    label,
		buffers:  make(map[int]*wgpu.Buffer),
		views:    make(map[int]*wgpu.TextureView),
		samplers: make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string { return p.label }

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup                   { return p.group }
func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout       { return p.layout }
func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup)              { p.group = bg }
func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) { p.layout = bgl }

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer           { return p.buffers[binding] }
func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView { return p.views[binding] }
func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler         { return p.samplers[binding] }
func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer             { return p.buffers }

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.views[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer   { return p.vertex.buf }
func (p *bindGroupProvider) VertexCount() int             { return p.vertex.count }
func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer    { return p.index.buf }
func (p *bindGroupProvider) IndexCount() int              { return p.index.count }
func (p *bindGroupProvider) InstanceBuffer() *wgpu.Buffer { return p.instance.buf }
func (p *bindGroupProvider) InstanceCount() int           { return p.instance.count }

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer, count int) {
	p.vertex = stream{buf: buf, count: count}
}

func (p *bindGroupProvider) SetVertexCount(count int) {
	p.vertex.count = count
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.index.buf = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.index.count = count
}

func (p *bindGroupProvider) SetInstanceBuffer(buf *wgpu.Buffer, count int) {
	p.instance = stream{buf: buf, count: count}
}

func (p *bindGroupProvider) Release() {
	releaseAll(p.views)
	releaseAll(p.samplers)
	releaseAll(p.buffers)

	if p.group != nil {
		p.group.Release()
		p.group = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	p.vertex.release()
	p.index.release()
	p.instance.release()
}

// releaseAll releases every non-nil resource in m and empties it.
func releaseAll[T any, R interface {
	*T
	Release()
}](m map[int]R) {
	for k, r := range m {
		if r != nil {
			r.Release()
		}
		delete(m, k)
	}
}
