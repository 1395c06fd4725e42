package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestResolveTypeLayout(t *testing.T) {
	tests := []struct {
		typeName string
		want     wgslTypeLayout
	}{
		{"u32", wgslTypeLayout{4, 4}},
		{"vec2<f32>", wgslTypeLayout{8, 8}},
		{"vec3f", wgslTypeLayout{12, 16}},
		{"vec4u", wgslTypeLayout{16, 16}},
		{"mat2x2<f32>", wgslTypeLayout{16, 8}},
		{"mat3x3f", wgslTypeLayout{48, 16}},
		{"mat4x4<f32>", wgslTypeLayout{64, 16}},
		{"array<vec3f, 4>", wgslTypeLayout{64, 16}},
		{"array<f32>", wgslTypeLayout{4, 4}},
		{"array<vec4<f32>, 2>", wgslTypeLayout{32, 16}},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, ok := resolveTypeLayout(tt.typeName, nil)
			if !ok {
				t.Fatal("not resolved")
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	for _, name := range []string{"f16", "texture_2d<f32>", "array<Unknown, 2>", "array<f32, n>"} {
		if _, ok := resolveTypeLayout(name, nil); ok {
			t.Errorf("%q resolved", name)
		}
	}
}

func TestComputeStructSizes(t *testing.T) {
	structs := parseStructBlocks(`
struct Outer {
    inner: Triangle,
    tail: f32,
}
struct Triangle {
    points: array<vec3f, 3>,
    color: vec3f,
    flags: u32,
}
struct Prefixed {
    count: u32,
    items: array<vec4f>,
}
struct OnlyRuntime {
    items: array<vec4f>,
}
struct Broken {
    x: NotAType,
}
`)
	got := computeStructSizes(structs)

	want := map[string]wgslTypeLayout{
		"Triangle":    {64, 16},
		"Outer":       {80, 16},
		"Prefixed":    {4, 4},
		"OnlyRuntime": {16, 16},
	}
	for name, layout := range want {
		if got[name] != layout {
			t.Errorf("%s = %+v, want %+v", name, got[name], layout)
		}
	}
	if _, ok := got["Broken"]; ok {
		t.Error("Broken resolved")
	}
}

func TestClassifyResource(t *testing.T) {
	tests := []struct {
		name    string
		space   string
		typ     string
		buffer  wgpu.BufferBindingType
		sampler wgpu.SamplerBindingType
		view    wgpu.TextureViewDimension
		sample  wgpu.TextureSampleType
	}{
		{name: "uniform", space: "uniform", typ: "Camera", buffer: wgpu.BufferBindingTypeUniform},
		{name: "storage read", space: "storage, read", typ: "array<f32>", buffer: wgpu.BufferBindingTypeReadOnlyStorage},
		{name: "storage", space: "storage", typ: "Arena", buffer: wgpu.BufferBindingTypeReadOnlyStorage},
		{name: "storage read_write", space: "storage, read_write", typ: "Arena", buffer: wgpu.BufferBindingTypeStorage},
		{name: "sampler", typ: "sampler", sampler: wgpu.SamplerBindingTypeFiltering},
		{name: "comparison", typ: "sampler_comparison", sampler: wgpu.SamplerBindingTypeComparison},
		{name: "texture", typ: "texture_2d<f32>", view: wgpu.TextureViewDimension2D, sample: wgpu.TextureSampleTypeFloat},
		{name: "cube", typ: "texture_cube<u32>", view: wgpu.TextureViewDimensionCube, sample: wgpu.TextureSampleTypeUint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := classifyResource(3, wgpu.ShaderStageFragment, tt.space, tt.typ)
			if e.Binding != 3 || e.Visibility != wgpu.ShaderStageFragment {
				t.Errorf("binding/visibility = %d/%v", e.Binding, e.Visibility)
			}
			if e.Buffer.Type != tt.buffer {
				t.Errorf("buffer = %v, want %v", e.Buffer.Type, tt.buffer)
			}
			if e.Sampler.Type != tt.sampler {
				t.Errorf("sampler = %v, want %v", e.Sampler.Type, tt.sampler)
			}
			if e.Texture.ViewDimension != tt.view || e.Texture.SampleType != tt.sample {
				t.Errorf("texture = %v/%v, want %v/%v", e.Texture.ViewDimension, e.Texture.SampleType, tt.view, tt.sample)
			}
		})
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a // x\nb", "a \nb"},
		{"b /* c /* d */ e */ f", "b  f"},
		{"// @vertex\nfn x", "\nfn x"},
		{"x /* // */ y", "x  y"},
		{"a * b / c", "a * b / c"},
	}
	for _, tt := range tests {
		if got := stripComments(tt.in); got != tt.want {
			t.Errorf("stripComments(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	got := splitAtTopLevelCommas("a: array<T, 6>, b: f32,")
	if len(got) != 3 || got[0] != "a: array<T, 6>" || got[1] != " b: f32" || got[2] != "" {
		t.Errorf("got %q", got)
	}
}
