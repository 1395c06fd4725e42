package shaders_test

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/interact"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shade/engine/shaders"
	"github.com/Carmen-Shannon/oxy-shade/engine/storage"
	"github.com/cogentcore/webgpu/wgpu"
)

// skipUnsupported skips when the naga front end reports a feature it has not implemented yet.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("naga: %v", err)
	}
}

func mustLoad(t *testing.T, key string, st shader.ShaderType, source string) shader.Shader {
	t.Helper()
	s, err := shader.NewShaderFromSource(key, st, source)
	if err != nil {
		t.Fatalf("NewShaderFromSource(%s): %v", key, err)
	}
	return s
}

func TestAssetEntryPoints(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stages map[shader.ShaderType]string
	}{
		{"interactive", shaders.Interactive, map[shader.ShaderType]string{shader.ShaderTypeVertex: "vs_main", shader.ShaderTypeFragment: "fs_main"}},
		{"model", shaders.Model, map[shader.ShaderType]string{shader.ShaderTypeVertex: "vs_main", shader.ShaderTypeFragment: "fs_main"}},
		{"simple", shaders.Simple, map[shader.ShaderType]string{shader.ShaderTypeVertex: "vs_main", shader.ShaderTypeFragment: "fs_main"}},
		{"texture", shaders.Texture, map[shader.ShaderType]string{shader.ShaderTypeVertex: "vs_main", shader.ShaderTypeFragment: "fs_main"}},
		{"storage_kernel", shaders.StorageKernel, map[shader.ShaderType]string{shader.ShaderTypeCompute: "cs_main"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for st, want := range tt.stages {
				s := mustLoad(t, tt.name, st, tt.source)
				if s.EntryPoint() != want {
					t.Errorf("%s entry point = %q, want %q", st, s.EntryPoint(), want)
				}
				if strings.Contains(s.Source(), "@oxy:") {
					t.Errorf("%s source still contains annotations", st)
				}
			}
		})
	}
}

func TestStorageKernelHasNoRenderStage(t *testing.T) {
	_, err := shader.NewShaderFromSource("kernel", shader.ShaderTypeVertex, shaders.StorageKernel)
	if err == nil {
		t.Fatal("expected ErrNoEntryPoint for a vertex shader over the kernel")
	}
}

func TestVertexLayoutsMatchGoTypes(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		strides []uint64
		steps   []wgpu.VertexStepMode
	}{
		{
			name:    "interactive",
			source:  shaders.Interactive,
			strides: []uint64{uint64((&interact.GPUVertex{}).Size())},
			steps:   []wgpu.VertexStepMode{wgpu.VertexStepModeVertex},
		},
		{
			name:    "model",
			source:  shaders.Model,
			strides: []uint64{uint64((&model.GPUVertex{}).Size()), uint64((&model.GPUInstance{}).Size())},
			steps:   []wgpu.VertexStepMode{wgpu.VertexStepModeVertex, wgpu.VertexStepModeInstance},
		},
		{
			name:    "simple",
			source:  shaders.Simple,
			strides: []uint64{uint64((&model.GPUColorVertex{}).Size())},
			steps:   []wgpu.VertexStepMode{wgpu.VertexStepModeVertex},
		},
		{
			name:    "texture",
			source:  shaders.Texture,
			strides: []uint64{uint64((&model.GPUTextureVertex{}).Size())},
			steps:   []wgpu.VertexStepMode{wgpu.VertexStepModeVertex},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layouts := mustLoad(t, tt.name, shader.ShaderTypeVertex, tt.source).VertexLayouts()
			if len(layouts) != len(tt.strides) {
				t.Fatalf("got %d layouts, want %d", len(layouts), len(tt.strides))
			}
			for i, l := range layouts {
				if l.ArrayStride != tt.strides[i] {
					t.Errorf("slot %d stride = %d, want %d", i, l.ArrayStride, tt.strides[i])
				}
				if l.StepMode != tt.steps[i] {
					t.Errorf("slot %d step mode = %v, want %v", i, l.StepMode, tt.steps[i])
				}
			}
		})
	}
}

func TestInteractiveVertexAttributes(t *testing.T) {
	layout := mustLoad(t, "interactive", shader.ShaderTypeVertex, shaders.Interactive).VertexLayouts()[0]
	want := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatUint32x4, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 28, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 40, ShaderLocation: 3},
	}
	if len(layout.Attributes) != len(want) {
		t.Fatalf("got %d attributes", len(layout.Attributes))
	}
	for i, a := range layout.Attributes {
		if a != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, a, want[i])
		}
	}
}

func TestModelInstanceAttributes(t *testing.T) {
	layouts := mustLoad(t, "model", shader.ShaderTypeVertex, shaders.Model).VertexLayouts()
	inst := layouts[1]
	if len(inst.Attributes) != 7 {
		t.Fatalf("instance attributes = %d, want 7", len(inst.Attributes))
	}
	for i, a := range inst.Attributes {
		if a.ShaderLocation != uint32(5+i) {
			t.Errorf("attribute %d location = %d, want %d", i, a.ShaderLocation, 5+i)
		}
	}
	if inst.Attributes[4].Offset != 64 || inst.Attributes[4].Format != wgpu.VertexFormatFloat32x3 {
		t.Errorf("first normal column = %+v, want Float32x3 at 64", inst.Attributes[4])
	}
}

func TestUniformBindingSizes(t *testing.T) {
	tests := []struct {
		name    string
		st      shader.ShaderType
		source  string
		group   int
		binding int
		bufType wgpu.BufferBindingType
		size    uint64
	}{
		{"controls", shader.ShaderTypeVertex, shaders.Interactive, 0, 0, wgpu.BufferBindingTypeUniform, uint64((&interact.GPUControls{}).Size())},
		{"camera", shader.ShaderTypeVertex, shaders.Model, 0, 0, wgpu.BufferBindingTypeUniform, uint64((&camera.GPUCameraUniform{}).Size())},
		{"light", shader.ShaderTypeVertex, shaders.Model, 1, 0, wgpu.BufferBindingTypeUniform, uint64((&light.GPULight{}).Size())},
		{"records", shader.ShaderTypeCompute, shaders.StorageKernel, 0, 0, wgpu.BufferBindingTypeStorage, storage.ArenaBytes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := mustLoad(t, tt.name, tt.st, tt.source).BindGroupLayoutDescriptor(tt.group)
			if len(desc.Entries) <= tt.binding {
				t.Fatalf("group %d has %d entries", tt.group, len(desc.Entries))
			}
			e := desc.Entries[tt.binding]
			if e.Buffer.Type != tt.bufType {
				t.Errorf("buffer type = %v, want %v", e.Buffer.Type, tt.bufType)
			}
			if e.Buffer.MinBindingSize != tt.size {
				t.Errorf("MinBindingSize = %d, want %d", e.Buffer.MinBindingSize, tt.size)
			}
		})
	}
}

func TestModelMaterialGroup(t *testing.T) {
	s := mustLoad(t, "model", shader.ShaderTypeFragment, shaders.Model)
	desc := s.BindGroupLayoutDescriptor(2)
	if len(desc.Entries) != 2 {
		t.Fatalf("material group entries = %d, want 2", len(desc.Entries))
	}
	if desc.Entries[0].Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("binding 0 sample type = %v", desc.Entries[0].Texture.SampleType)
	}
	if desc.Entries[1].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("binding 1 sampler type = %v", desc.Entries[1].Sampler.Type)
	}

	roles := map[int]shader.AnnotationArg{}
	for _, d := range s.Declarations() {
		if d.Provider() == shader.AnnotationArgMaterial {
			roles[*d.Binding] = d.Role()
		}
	}
	if roles[0] != shader.AnnotationArgDiffuseTexture || roles[1] != shader.AnnotationArgDiffuseSampler {
		t.Errorf("material roles = %v", roles)
	}
}

func TestAssetsCompileWithNaga(t *testing.T) {
	for _, a := range shaders.All() {
		t.Run(a.Name, func(t *testing.T) {
			st := shader.ShaderTypeVertex
			if a.Name == "storage_kernel" {
				st = shader.ShaderTypeCompute
			}
			s := mustLoad(t, a.Name, st, a.Source)
			if err := s.Validate(); err != nil {
				skipUnsupported(t, err)
				t.Fatalf("Validate: %v", err)
			}

			eps, err := s.EntryPoints()
			if err != nil {
				skipUnsupported(t, err)
				t.Fatalf("EntryPoints: %v", err)
			}
			found := false
			for _, ep := range eps {
				if ep.Name == s.EntryPoint() && ep.Stage == st {
					found = true
				}
			}
			if !found {
				t.Errorf("entry point %q (%s) not reflected in %+v", s.EntryPoint(), st, eps)
			}
		})
	}
}

func TestStorageKernelWorkgroup(t *testing.T) {
	s := mustLoad(t, "kernel", shader.ShaderTypeCompute, shaders.StorageKernel)
	if s.WorkgroupSize() != [3]uint32{1, 1, 1} {
		t.Errorf("WorkgroupSize = %v", s.WorkgroupSize())
	}
}

func TestModelVaryingsMatchVertexOutput(t *testing.T) {
	// fs_main only samples the texture, so the stage carries the clip position and the
	// UV, as model.VertexOutput does
	start := strings.Index(shaders.Model, "struct VertexOutput {")
	if start < 0 {
		t.Fatal("model shader has no VertexOutput struct")
	}
	block := shaders.Model[start : start+strings.Index(shaders.Model[start:], "}")]
	if n := strings.Count(block, "@location("); n != 1 {
		t.Errorf("VertexOutput has %d @location fields, want 1:\n%s", n, block)
	}
	for _, field := range []string{"clip_position", "tex_coord"} {
		if !strings.Contains(block, field) {
			t.Errorf("VertexOutput missing %s", field)
		}
	}
}

func TestMeshTransformBinding(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:include mesh_transform",
		"//@oxy:group 0 0 storage_uniform mesh mesh_transform",
		"",
		"@vertex",
		"fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {",
		"    return mesh.model * vec4<f32>(position, 1.0);",
		"}",
	}, "\n")

	s := mustLoad(t, "mesh_transform", shader.ShaderTypeVertex, src)
	if !strings.Contains(s.Source(), "var<uniform> mesh: MeshTransform;") {
		t.Errorf("processed source missing the mesh binding:\n%s", s.Source())
	}
	desc := s.BindGroupLayoutDescriptor(0)
	if len(desc.Entries) != 1 {
		t.Fatalf("group 0 entries = %d, want 1", len(desc.Entries))
	}
	if got, want := desc.Entries[0].Buffer.MinBindingSize, uint64((&model.GPUMeshTransform{}).Size()); got != want {
		t.Errorf("MinBindingSize = %d, want %d", got, want)
	}
	if got := s.BindGroupVarName(0, 0); got != "mesh" {
		t.Errorf("var name = %q, want mesh", got)
	}
}
