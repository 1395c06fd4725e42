package bind_group_provider

// BindGroupProviderOption configures a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithVertexCount presets the vertex count of a mesh whose vertex buffer the renderer
// creates later.
func WithVertexCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertex.count = max(count, 0)
	}
}

// WithIndexCount presets the index count of an indexed mesh.
func WithIndexCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.index.count = max(count, 0)
	}
}
