package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineType identifies whether a pipeline is a compute pipeline or a render pipeline.
type PipelineType int

const (
	// PipelineTypeCompute indicates a compute pipeline with a single compute shader entry point.
	PipelineTypeCompute PipelineType = iota

	// PipelineTypeRender indicates a render pipeline with vertex and fragment shader entry points.
	PipelineTypeRender
)

// ErrMissingShader is returned by Validate when a stage the pipeline type needs has no shader.
var ErrMissingShader = errors.New("pipeline: missing shader")

// RenderState is the fixed-function state of a render pipeline. Compute pipelines carry
// the defaults and ignore them.
type RenderState struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCompare wgpu.CompareFunction

	// Blend is nil when blending is off.
	Blend *wgpu.BlendState

	CullMode  wgpu.CullMode
	Topology  wgpu.PrimitiveTopology
	FrontFace wgpu.FrontFace
	WriteMask wgpu.ColorWriteMask
}

// defaultRenderState tests and writes depth with CompareLess, culls nothing, draws a
// triangle list with CCW front faces and does not blend.
func defaultRenderState() RenderState {
	return RenderState{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: wgpu.CompareFunctionLess,
		CullMode:     wgpu.CullModeNone,
		Topology:     wgpu.PrimitiveTopologyTriangleList,
		FrontFace:    wgpu.FrontFaceCCW,
		WriteMask:    wgpu.ColorWriteMaskAll,
	}
}

type pipeline struct {
	kind PipelineType
	key  string

	stages map[shader.ShaderType]shader.Shader
	state  RenderState

	// set by the renderer on registration
	render  *wgpu.RenderPipeline
	compute *wgpu.ComputePipeline
}

// Pipeline pairs shaders with the render state the renderer needs to create the wgpu
// pipeline object, and holds that object once created.
type Pipeline interface {
	Type() PipelineType

	// PipelineKey returns the unique key the renderer registers this pipeline under.
	PipelineKey() string

	// Shader returns the shader bound to a stage, or nil.
	//
	// Parameters:
	//   - shaderType: the stage
	//
	// Returns:
	//   - shader.Shader: the shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// State returns a copy of the render state.
	State() RenderState

	// Validate checks that the stages the pipeline type needs are bound.
	//
	// Returns:
	//   - error: an error wrapping ErrMissingShader, or nil
	Validate() error

	// Pipeline returns the *wgpu.RenderPipeline or *wgpu.ComputePipeline, typed nil before
	// registration.
	Pipeline() any

	SetRenderPipeline(p *wgpu.RenderPipeline)
	SetComputePipeline(p *wgpu.ComputePipeline)

	// Release frees the wgpu pipeline. The shaders and state are kept, so the pipeline can
	// be registered again.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline with the default render state.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - pipelineType: render or compute
//   - opts: options configuring shaders and render state
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		kind:   pipelineType,
		key:    pipelineKey,
		stages: make(map[shader.ShaderType]shader.Shader, 2),
		state:  defaultRenderState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AlphaBlending returns the standard source-over blend state.
func AlphaBlending() *wgpu.BlendState {
	over := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}
	color := over
	color.SrcFactor = wgpu.BlendFactorSrcAlpha
	return &wgpu.BlendState{Color: color, Alpha: over}
}

func (p *pipeline) Type() PipelineType                          { return p.kind }
func (p *pipeline) PipelineKey() string                         { return p.key }
func (p *pipeline) Shader(t shader.ShaderType) shader.Shader    { return p.stages[t] }
func (p *pipeline) State() RenderState                          { return p.state }
func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline)   { p.render = rp }
func (p *pipeline) SetComputePipeline(cp *wgpu.ComputePipeline) { p.compute = cp }

func (p *pipeline) Pipeline() any {
	if p.kind == PipelineTypeCompute {
		return p.compute
	}
	return p.render
}

// required lists the stages each pipeline type needs, in the order they are reported.
var required = map[PipelineType][]shader.ShaderType{
	PipelineTypeRender:  {shader.ShaderTypeVertex, shader.ShaderTypeFragment},
	PipelineTypeCompute: {shader.ShaderTypeCompute},
}

func (p *pipeline) Validate() error {
	stages, ok := required[p.kind]
	if !ok {
		return fmt.Errorf("pipeline %s: unknown pipeline type %d", p.key, p.kind)
	}
	for _, t := range stages {
		if p.stages[t] == nil {
			return fmt.Errorf("%w: pipeline %s has no %s shader", ErrMissingShader, p.key, t)
		}
	}
	return nil
}

func (p *pipeline) Release() {
	if p.render != nil {
		p.render.Release()
		p.render = nil
	}
	if p.compute != nil {
		p.compute.Release()
		p.compute = nil
	}
}
