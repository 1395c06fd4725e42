package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shade/engine/shaders"
	"github.com/cogentcore/webgpu/wgpu"
)

// Keys of the preset pipelines.
const (
	KeyInteractive   = "interactive"
	KeyModel         = "model"
	KeyStorageKernel = "storage_kernel"
	KeyStorageDraw   = "storage_draw"
	KeySimple        = "simple"
	KeyTexture       = "texture"
)

// renderShaders loads the vertex and fragment stages of one WGSL program.
func renderShaders(key, source string) (shader.Shader, shader.Shader, error) {
	vs, err := shader.NewShaderFromSource(key+"_vs", shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, nil, err
	}
	fs, err := shader.NewShaderFromSource(key+"_fs", shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}

func newRenderPreset(key, source string, opts ...PipelineBuilderOption) (Pipeline, error) {
	vs, fs, err := renderShaders(key, source)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	p := NewPipeline(key, PipelineTypeRender, append([]PipelineBuilderOption{WithShaders(vs, fs)}, opts...)...)
	return p, p.Validate()
}

// flat is the render state of 2D passes drawn over the clear color.
var flat = []PipelineBuilderOption{
	WithDepthTestEnabled(false),
	WithDepthWriteEnabled(false),
	WithCullMode(wgpu.CullModeNone),
}

// Interactive builds the click-highlight pipeline: alpha blended, no culling, no depth.
//
// Returns:
//   - Pipeline: the render pipeline
//   - error: a shader load error
func Interactive() (Pipeline, error) {
	return newRenderPreset(KeyInteractive, shaders.Interactive, append(flat[:len(flat):len(flat)], WithBlendEnabled(true))...)
}

// Model builds the instanced model pipeline: depth tested with CompareLess and back faces culled.
//
// Returns:
//   - Pipeline: the render pipeline
//   - error: a shader load error
func Model() (Pipeline, error) {
	return newRenderPreset(KeyModel, shaders.Model,
		WithDepthCompare(wgpu.CompareFunctionLess),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCCW),
	)
}

// Simple builds the pass-through colored geometry pipeline.
//
// Returns:
//   - Pipeline: the render pipeline
//   - error: a shader load error
func Simple() (Pipeline, error) {
	return newRenderPreset(KeySimple, shaders.Simple, flat...)
}

// Texture builds the full-screen textured quad pipeline.
//
// Returns:
//   - Pipeline: the render pipeline
//   - error: a shader load error
func Texture() (Pipeline, error) {
	return newRenderPreset(KeyTexture, shaders.Texture, flat...)
}

// Storage builds the storage kernel compute pipeline and the pass-through render
// pipeline drawn alongside it.
//
// Returns:
//   - []Pipeline: the compute pipeline followed by the render pipeline
//   - error: a shader load error
func Storage() ([]Pipeline, error) {
	cs, err := shader.NewShaderFromSource(KeyStorageKernel, shader.ShaderTypeCompute, shaders.StorageKernel)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", KeyStorageKernel, err)
	}
	kernel := NewPipeline(KeyStorageKernel, PipelineTypeCompute, WithComputeShader(cs))

	draw, err := newRenderPreset(KeyStorageDraw, shaders.Simple, flat...)
	if err != nil {
		return nil, err
	}
	return []Pipeline{kernel, draw}, nil
}
