package model

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var identityQuat = mgl32.QuatIdent()

// ModelBuilderOption is a function that configures a model instance during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the model identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that replaces the default cube with custom mesh data.
//
// Parameters:
//   - vertices: the mesh vertices
//   - indices: the triangle list indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.vertexData = MarshalVertices(vertices)
		m.indexData = MarshalIndices(indices)
		m.indexCount = len(indices)
	}
}

// WithInstances is an option builder that sets the instance placements.
//
// Parameters:
//   - instances: the placements to draw
//
// Returns:
//   - ModelBuilderOption: a function that applies the instances option to a model
func WithInstances(instances ...Instance) ModelBuilderOption {
	return func(m *model) {
		m.instances = instances
	}
}

// WithInstanceGrid is an option builder that lays the model out with BuildInstanceGrid.
//
// Parameters:
//   - perRow: instances per row
//   - spacing: distance between instances
//
// Returns:
//   - ModelBuilderOption: a function that applies the grid option to a model
func WithInstanceGrid(perRow int, spacing float32) ModelBuilderOption {
	return func(m *model) {
		m.instances = BuildInstanceGrid(perRow, spacing)
	}
}

// WithMaterial is an option builder that sets the diffuse material.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}

// WithMeshProvider is an option builder that sets the mesh BindGroupProvider.
//
// Parameters:
//   - provider: the mesh provider
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.meshProvider = provider
	}
}
