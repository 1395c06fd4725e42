package model

import (
	"encoding/binary"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name                  string
	material              material.Material
	meshProvider          bind_group_provider.BindGroupProvider
	vertexData, indexData []byte
	indexCount            int
	instances             []Instance
}

// Model defines the interface for an instanced, textured mesh.
// A Model owns the CPU-side vertex, index and instance payloads, the mesh
// BindGroupProvider that holds their GPU buffers, and the diffuse material
// sampled by the fragment stage.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Material retrieves the diffuse material drawn with this model.
	//
	// Returns:
	//   - material.Material: the material, or nil if none was set
	Material() material.Material

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData retrieves the packed vertex buffer payload.
	VertexData() []byte

	// VertexCount returns the number of vertices in VertexData.
	VertexCount() int

	// IndexData retrieves the packed uint32 index buffer payload.
	IndexData() []byte

	// IndexCount retrieves the number of indices to draw.
	IndexCount() int

	// Instances retrieves a copy of the instance placements.
	//
	// Returns:
	//   - []Instance: the instances
	Instances() []Instance

	// InstanceCount returns the number of instances drawn. A model with no
	// instances is drawn once with the identity transform.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int

	// InstanceData packs the instances into the slot 1 vertex buffer payload.
	//
	// Returns:
	//   - []byte: 100 bytes per instance
	InstanceData() []byte

	// SetInstances replaces the instance placements.
	//
	// Parameters:
	//   - instances: the new placements
	SetInstances(instances []Instance)

	// SetMaterial replaces the diffuse material.
	SetMaterial(m material.Material)

	// SetMeshProvider replaces the mesh provider.
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options.
// Without mesh data options the model is the unit cube from Cube.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mu:   &sync.Mutex{},
		name: "model",
	}
	for _, opt := range options {
		opt(m)
	}
	if m.vertexData == nil {
		vertices, indices := Cube()
		m.vertexData = MarshalVertices(vertices)
		m.indexData = MarshalIndices(indices)
		m.indexCount = len(indices)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name+"_mesh", bind_group_provider.WithIndexCount(m.indexCount))
	}
	return m
}

// MarshalIndices packs uint32 indices little-endian.
//
// Parameters:
//   - indices: the indices to pack
//
// Returns:
//   - []byte: 4 bytes per index
func MarshalIndices(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Material() material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.material
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meshProvider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) VertexCount() int {
	return len(m.vertexData) / (&GPUVertex{}).Size()
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) Instances() []Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Instance, len(m.instances))
	copy(out, m.instances)
	return out
}

func (m *model) InstanceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.instances) == 0 {
		return 1
	}
	return len(m.instances)
}

func (m *model) InstanceData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.instances) == 0 {
		return MarshalInstances([]GPUInstance{Instance{Rotation: identityQuat}.ToRaw()})
	}
	return MarshalInstances(RawInstances(m.instances))
}

func (m *model) SetInstances(instances []Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances = instances
}

func (m *model) SetMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.material = mat
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meshProvider = provider
}
