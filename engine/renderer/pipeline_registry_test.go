package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestPipelineRegistry(t *testing.T) {
	simple, err := pipeline.Simple()
	if err != nil {
		t.Fatal(err)
	}
	storage, err := pipeline.Storage()
	if err != nil {
		t.Fatal(err)
	}

	var reg pipelineRegistry
	created := map[string]int{}
	create := func(p pipeline.Pipeline) error {
		created[p.PipelineKey()]++
		return nil
	}

	if err := reg.register(append([]pipeline.Pipeline{simple}, storage...), create); err != nil {
		t.Fatal(err)
	}
	// registering a key again is a no-op
	if err := reg.register([]pipeline.Pipeline{simple}, create); err != nil {
		t.Fatal(err)
	}
	if created[pipeline.KeySimple] != 1 {
		t.Errorf("simple created %d times, want 1", created[pipeline.KeySimple])
	}

	tests := []struct {
		name    string
		key     string
		want    pipeline.PipelineType
		wantErr bool
	}{
		{"render", pipeline.KeySimple, pipeline.PipelineTypeRender, false},
		{"compute", pipeline.KeyStorageKernel, pipeline.PipelineTypeCompute, false},
		{"render key as compute", pipeline.KeySimple, pipeline.PipelineTypeCompute, true},
		{"compute key as render", pipeline.KeyStorageKernel, pipeline.PipelineTypeRender, true},
		{"missing", "nope", pipeline.PipelineTypeRender, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := reg.lookup(tt.key, tt.want)
			if tt.wantErr != (err != nil) {
				t.Fatalf("lookup(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err == nil && p.PipelineKey() != tt.key {
				t.Errorf("lookup(%q) returned %q", tt.key, p.PipelineKey())
			}
		})
	}
}

func TestPipelineRegistryErrors(t *testing.T) {
	var reg pipelineRegistry
	incomplete := pipeline.NewPipeline("incomplete", pipeline.PipelineTypeRender)
	if err := reg.register([]pipeline.Pipeline{incomplete}, func(pipeline.Pipeline) error { return nil }); !errors.Is(err, pipeline.ErrMissingShader) {
		t.Errorf("register(incomplete) = %v, want ErrMissingShader", err)
	}
	if _, ok := reg.get("incomplete"); ok {
		t.Error("invalid pipeline was registered")
	}

	simple, err := pipeline.Simple()
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("device lost")
	if err := reg.register([]pipeline.Pipeline{simple}, func(pipeline.Pipeline) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("register = %v, want wrapped create error", err)
	}
	if _, ok := reg.get(pipeline.KeySimple); ok {
		t.Error("pipeline registered despite create error")
	}
}

func TestRendererOptions(t *testing.T) {
	color := wgpu.Color{R: 1, A: 1}
	opts := rendererOptions{msaa: MSAA4x}
	for _, opt := range []RendererBuilderOption{
		WithMSAA(MSAAOff),
		WithPresentMode(PresentModeUncapped),
		WithClearColor(color),
		WithForceSoftwareRenderer(true),
	} {
		opt(&opts)
	}
	want := rendererOptions{fallbackAdapter: true, msaa: MSAAOff, presentMode: PresentModeUncapped, clearColor: color}
	if opts != want {
		t.Errorf("options = %+v, want %+v", opts, want)
	}
}
