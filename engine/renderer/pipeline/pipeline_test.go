package pipeline

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("p", PipelineTypeRender)
	if got := p.State(); got != defaultRenderState() {
		t.Errorf("State() = %+v, want defaults", got)
	}
	s := p.State()
	if !s.DepthTest || !s.DepthWrite || s.DepthCompare != wgpu.CompareFunctionLess {
		t.Error("render pipelines default to depth test and write with CompareLess")
	}
	if s.Blend != nil || s.CullMode != wgpu.CullModeNone || s.Topology != wgpu.PrimitiveTopologyTriangleList {
		t.Error("unexpected raster defaults")
	}
	if s.WriteMask != wgpu.ColorWriteMaskAll {
		t.Error("unexpected color defaults")
	}
	if p.Pipeline().(*wgpu.RenderPipeline) != nil {
		t.Error("no GPU pipeline before registration")
	}
}

func TestWithBlendEnabled(t *testing.T) {
	on := NewPipeline("on", PipelineTypeRender, WithBlendEnabled(true)).State().Blend
	if on == nil {
		t.Fatal("blend enabled without a blend state")
	}
	if on.Color.SrcFactor != wgpu.BlendFactorSrcAlpha || on.Alpha.SrcFactor != wgpu.BlendFactorOne {
		t.Errorf("blend = %+v, want source-over", *on)
	}
	off := NewPipeline("off", PipelineTypeRender, WithBlendEnabled(true), WithBlendEnabled(false)).State().Blend
	if off != nil {
		t.Error("disabling blend kept the blend state")
	}
}

func TestValidate(t *testing.T) {
	vs, fs, err := renderShaders("simple", simpleSource)
	if err != nil {
		t.Fatal(err)
	}
	cs, err := shader.NewShaderFromSource("cs", shader.ShaderTypeCompute, "@compute @workgroup_size(1)\nfn cs_main() {}")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		typ     PipelineType
		opts    []PipelineBuilderOption
		wantErr bool
	}{
		{"render complete", PipelineTypeRender, []PipelineBuilderOption{WithShaders(vs, fs)}, false},
		{"render without fragment", PipelineTypeRender, []PipelineBuilderOption{WithVertexShader(vs)}, true},
		{"render without vertex", PipelineTypeRender, []PipelineBuilderOption{WithFragmentShader(fs)}, true},
		{"render with only compute", PipelineTypeRender, []PipelineBuilderOption{WithComputeShader(cs)}, true},
		{"compute complete", PipelineTypeCompute, []PipelineBuilderOption{WithComputeShader(cs)}, false},
		{"compute without shader", PipelineTypeCompute, []PipelineBuilderOption{WithShaders(vs, fs)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPipeline(tt.name, tt.typ, tt.opts...).Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMissingShader) {
				t.Errorf("error %v does not wrap ErrMissingShader", err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	interactive, err := Interactive()
	if err != nil {
		t.Fatal(err)
	}
	if s := interactive.State(); s.Blend == nil || s.DepthTest || s.CullMode != wgpu.CullModeNone {
		t.Error("interactive: want alpha blend, no depth, no culling")
	}

	model, err := Model()
	if err != nil {
		t.Fatal(err)
	}
	if s := model.State(); !s.DepthTest || s.DepthCompare != wgpu.CompareFunctionLess || s.CullMode != wgpu.CullModeBack {
		t.Error("model: want depth Less and back-face culling")
	}
	if n := len(model.Shader(shader.ShaderTypeVertex).VertexLayouts()); n != 2 {
		t.Errorf("model vertex slots = %d, want 2", n)
	}

	storage, err := Storage()
	if err != nil {
		t.Fatal(err)
	}
	if len(storage) != 2 || storage[0].Type() != PipelineTypeCompute || storage[1].Type() != PipelineTypeRender {
		t.Fatalf("storage presets = %+v", storage)
	}
	if storage[0].Shader(shader.ShaderTypeCompute).EntryPoint() != "cs_main" {
		t.Error("storage kernel entry point")
	}

	for _, build := range []func() (Pipeline, error){Simple, Texture} {
		p, err := build()
		if err != nil {
			t.Fatal(err)
		}
		if p.State().DepthTest {
			t.Errorf("%s: flat passes skip depth", p.PipelineKey())
		}
	}
}

const simpleSource = `
struct ColorVertex {
    @location(0) position: vec3<f32>,
    @location(1) color: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) color: vec3<f32>,
}

@vertex
fn vs_main(v: ColorVertex) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = vec4<f32>(v.position, 1.0);
    out.color = v.color;
    return out;
}

@fragment
fn fs_main(frag: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(frag.color, 1.0);
}
`
