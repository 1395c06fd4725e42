package pipeline

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a Pipeline during NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShaders binds every non-nil shader to the stage it declares, so a vertex and
// fragment pair can be passed in either order.
//
// Parameters:
//   - shaders: the shaders to bind
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithShaders(shaders ...shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		for _, s := range shaders {
			if s != nil {
				p.stages[s.ShaderType()] = s
			}
		}
	}
}

// withStage binds s to stage t regardless of its declared type.
func withStage(t shader.ShaderType, s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		if s == nil {
			delete(p.stages, t)
			return
		}
		p.stages[t] = s
	}
}

func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return withStage(shader.ShaderTypeVertex, s)
}

func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return withStage(shader.ShaderTypeFragment, s)
}

func WithComputeShader(s shader.Shader) PipelineBuilderOption {
	return withStage(shader.ShaderTypeCompute, s)
}

// WithDepthTestEnabled toggles depth testing. With testing off the pipeline still
// declares the pass's depth format but always passes.
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) { p.state.DepthTest = enabled }
}

func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) { p.state.DepthWrite = enabled }
}

// WithDepthCompare sets the depth comparison used while testing is on. Default: Less.
func WithDepthCompare(compare wgpu.CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) { p.state.DepthCompare = compare }
}

// WithBlendEnabled switches between AlphaBlending and no blending.
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.Blend = nil
		if enabled {
			p.state.Blend = AlphaBlending()
		}
	}
}

// WithCullMode sets which faces are culled. Default: none.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) { p.state.CullMode = mode }
}

// WithFrontFace sets the winding order of front faces. Default: counter-clockwise.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) { p.state.FrontFace = frontFace }
}
