package scene

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/interact"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shade/engine/storage"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type drawCall struct {
	key       string
	mesh      bind_group_provider.BindGroupProvider
	instances uint32
	groups    []bind_group_provider.BindGroupProvider
}

// fakeRenderer records resource and draw calls in memory. Methods the workers do not
// use fall through to the nil embedded Renderer and panic.
type fakeRenderer struct {
	renderer.Renderer

	pipelines map[string]pipeline.Pipeline
	buffers   map[bind_group_provider.BindGroupProvider]map[int][]byte
	usage     map[bind_group_provider.BindGroupProvider]map[int]wgpu.BufferUsage
	sizes     map[bind_group_provider.BindGroupProvider]map[int]uint64

	vertexCaps     map[bind_group_provider.BindGroupProvider]uint64
	vertexCounts   map[bind_group_provider.BindGroupProvider]int
	instanceCounts map[bind_group_provider.BindGroupProvider]int
	textures       map[bind_group_provider.BindGroupProvider][]int
	samplers       map[bind_group_provider.BindGroupProvider][]int

	vertexWrites int
	draws        []drawCall
	dispatches   int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines:      make(map[string]pipeline.Pipeline),
		buffers:        make(map[bind_group_provider.BindGroupProvider]map[int][]byte),
		usage:          make(map[bind_group_provider.BindGroupProvider]map[int]wgpu.BufferUsage),
		sizes:          make(map[bind_group_provider.BindGroupProvider]map[int]uint64),
		vertexCaps:     make(map[bind_group_provider.BindGroupProvider]uint64),
		vertexCounts:   make(map[bind_group_provider.BindGroupProvider]int),
		instanceCounts: make(map[bind_group_provider.BindGroupProvider]int),
		textures:       make(map[bind_group_provider.BindGroupProvider][]int),
		samplers:       make(map[bind_group_provider.BindGroupProvider][]int),
	}
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if _, ok := f.pipelines[p.PipelineKey()]; ok {
			continue
		}
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) BindGroupLayoutDescriptor(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, error) {
	p, ok := f.pipelines[pipelineKey]
	if !ok {
		return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("pipeline %q not found in cache", pipelineKey)
	}
	if cs := p.Shader(shader.ShaderTypeCompute); cs != nil {
		return cs.BindGroupLayoutDescriptor(group), nil
	}
	desc := p.Shader(shader.ShaderTypeVertex).BindGroupLayoutDescriptor(group)
	if len(desc.Entries) == 0 {
		desc = p.Shader(shader.ShaderTypeFragment).BindGroupLayoutDescriptor(group)
	}
	return desc, nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, usage map[int]wgpu.BufferUsage, sizes map[int]uint64) error {
	f.usage[provider] = usage
	f.sizes[provider] = sizes
	bufs := make(map[int][]byte)
	for _, entry := range descriptor.Entries {
		if entry.Buffer.Type == wgpu.BufferBindingTypeUndefined {
			continue
		}
		size := entry.Buffer.MinBindingSize
		if s, ok := sizes[int(entry.Binding)]; ok {
			size = s
		}
		bufs[int(entry.Binding)] = make([]byte, size)
	}
	f.buffers[provider] = bufs
	return nil
}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _ []byte, vertexCount int, _ []byte, _ int) error {
	f.vertexCounts[provider] = vertexCount
	return nil
}

func (f *fakeRenderer) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error {
	f.vertexCaps[provider] = size
	return nil
}

func (f *fakeRenderer) WriteVertexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte, vertexCount int) error {
	if offset+uint64(len(data)) > f.vertexCaps[provider] {
		return fmt.Errorf("vertex write of %d bytes overflows %d", len(data), f.vertexCaps[provider])
	}
	f.vertexCounts[provider] = vertexCount
	f.vertexWrites++
	return nil
}

func (f *fakeRenderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, _ []byte, instanceCount int) error {
	f.instanceCounts[provider] = instanceCount
	return nil
}

func (f *fakeRenderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, _ common.TextureStagingData) error {
	f.textures[provider] = append(f.textures[provider], bindingKey)
	return nil
}

func (f *fakeRenderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, _ common.SamplerStagingData) error {
	f.samplers[provider] = append(f.samplers[provider], bindingKey)
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		bufs, ok := f.buffers[w.Provider]
		if !ok {
			bufs = make(map[int][]byte)
			f.buffers[w.Provider] = bufs
		}
		bufs[w.Binding] = append([]byte(nil), w.Data...)
	}
}

func (f *fakeRenderer) ReadBuffer(provider bind_group_provider.BindGroupProvider, binding int) ([]byte, error) {
	buf, ok := f.buffers[provider][binding]
	if !ok {
		return nil, errors.New("no such buffer")
	}
	return append([]byte(nil), buf...), nil
}

// DispatchCompute runs the storage kernel on the CPU against the records buffer.
func (f *fakeRenderer) DispatchCompute(_ string, provider bind_group_provider.BindGroupProvider, _ [3]uint32) error {
	var arena storage.Arena
	if err := arena.Unmarshal(f.buffers[provider][0]); err != nil {
		return err
	}
	storage.Apply(&arena)
	f.buffers[provider][0] = arena.Marshal()
	f.dispatches++
	return nil
}

func (f *fakeRenderer) DrawCall(pipelineKey string, mesh bind_group_provider.BindGroupProvider, instanceCount uint32, groups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawCall{key: pipelineKey, mesh: mesh, instances: instanceCount, groups: groups})
	return nil
}

func TestNewWorker(t *testing.T) {
	for _, kind := range config.WorkerKinds {
		t.Run(string(kind), func(t *testing.T) {
			w, err := NewWorker(kind)
			if err != nil {
				t.Fatalf("NewWorker: %v", err)
			}
			if w.Kind() != kind {
				t.Errorf("Kind() = %q, want %q", w.Kind(), kind)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewWorker("Wireframe"); !errors.Is(err, config.ErrUnknownWorker) {
			t.Errorf("err = %v, want ErrUnknownWorker", err)
		}
	})
}

func TestWorkersRequireInit(t *testing.T) {
	r := newFakeRenderer()
	for _, kind := range config.WorkerKinds {
		t.Run(string(kind), func(t *testing.T) {
			w, err := NewWorker(kind)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Draw(r); !errors.Is(err, ErrNotInitialized) {
				t.Errorf("Draw before Init = %v, want ErrNotInitialized", err)
			}
		})
	}
	if len(r.draws) != 0 {
		t.Errorf("%d draws issued before Init", len(r.draws))
	}
}

func TestSimpleWorkerCopies(t *testing.T) {
	r := newFakeRenderer()
	w := newSimpleWorker(&workerConfig{width: 800, height: 600})
	if err := w.Init(r); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.vertexCaps[w.mesh] != simpleVertexBufferSize {
		t.Errorf("vertex buffer = %d bytes, want %d", r.vertexCaps[w.mesh], simpleVertexBufferSize)
	}

	for frame := 0; frame < simpleCopies+3; frame++ {
		if err := w.Compute(r); err != nil {
			t.Fatal(err)
		}
		if err := w.Draw(r); err != nil {
			t.Fatal(err)
		}
		if err := w.AfterPresent(r); err != nil {
			t.Fatal(err)
		}
	}

	if got := w.triangles.Len(); got != simpleCopies+1 {
		t.Fatalf("triangles = %d, want %d", got, simpleCopies+1)
	}
	if got := r.vertexCounts[w.mesh]; got != (simpleCopies+1)*3 {
		t.Errorf("vertex count = %d, want %d", got, (simpleCopies+1)*3)
	}
	// one write from Init, then one per pushed copy
	if r.vertexWrites != simpleCopies+1 {
		t.Errorf("vertex writes = %d, want %d", r.vertexWrites, simpleCopies+1)
	}

	shift := simpleShiftStart
	for i := 1; i <= simpleCopies; i++ {
		tri, _ := w.triangles.At(i)
		want := firstTriangle.Translate(mgl32.Vec3{-shift, shift, 0})
		if tri.Points != want.Points {
			t.Errorf("copy %d = %v, want %v", i, tri.Points, want.Points)
		}
		shift += simpleShiftStep
	}

	for _, d := range r.draws {
		if d.key != pipeline.KeyInteractive || len(d.groups) != 1 || d.groups[0] != w.controls {
			t.Errorf("draw = %+v", d)
		}
	}
}

func TestSimpleWorkerClickAndDrag(t *testing.T) {
	r := newFakeRenderer()
	w := newSimpleWorker(&workerConfig{width: 800, height: 600})
	if err := w.Init(r); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		x, y      float32
		wantFlags uint32
	}{
		{"centroid", 767, 283.8, interact.FlagClick},
		{"outside", 10, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.Click(tt.x, tt.y)
			tri, _ := w.triangles.At(0)
			if tri.Flags != tt.wantFlags {
				t.Errorf("flags = %#x, want %#x", tri.Flags, tt.wantFlags)
			}
		})
	}

	before := r.vertexWrites
	w.Drag(5, -2)
	tri, _ := w.triangles.At(0)
	if want := firstTriangle.Translate(mgl32.Vec3{5, -2, 0}); tri.Points != want.Points {
		t.Errorf("after drag = %v, want %v", tri.Points, want.Points)
	}
	if err := w.Compute(r); err != nil {
		t.Fatal(err)
	}
	if r.vertexWrites != before+1 {
		t.Errorf("drag did not upload the vertices")
	}
}

func TestSimpleWorkerResizeWritesControls(t *testing.T) {
	r := newFakeRenderer()
	w := newSimpleWorker(&workerConfig{width: 800, height: 600})
	if err := w.Init(r); err != nil {
		t.Fatal(err)
	}

	w.Resize(1280, 720)
	if err := w.Compute(r); err != nil {
		t.Fatal(err)
	}
	want := interact.NewGPUControls(1280, 720).Marshal()
	if got := r.buffers[w.controls][0]; string(got) != string(want) {
		t.Errorf("controls = %v, want %v", got, want)
	}
}

func TestSimpleWorkerFlushBeforeInit(t *testing.T) {
	w := newSimpleWorker(&workerConfig{width: 800, height: 600})
	if err := w.Compute(newFakeRenderer()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Compute = %v, want ErrNotInitialized", err)
	}
}

func TestCustomWorkerMatchesReference(t *testing.T) {
	r := newFakeRenderer()
	w := newCustomWorker()
	if err := w.Init(r); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if r.usage[w.records][0] != wgpu.BufferUsageCopySrc {
		t.Errorf("usage override = %v, want CopySrc", r.usage[w.records])
	}
	if r.sizes[w.records][0] != storage.ArenaBytes {
		t.Errorf("size override = %v, want %d", r.sizes[w.records], storage.ArenaBytes)
	}

	var want storage.Arena
	var scaler storage.ReadbackScaler
	const frames = 5
	for i := 0; i < frames; i++ {
		if err := w.Compute(r); err != nil {
			t.Fatal(err)
		}
		if err := w.Draw(r); err != nil {
			t.Fatal(err)
		}
		if err := w.AfterPresent(r); err != nil {
			t.Fatal(err)
		}
		storage.Apply(&want)
		scaler.Scale(&want)
	}

	if r.dispatches != frames {
		t.Errorf("dispatches = %d, want %d", r.dispatches, frames)
	}
	if got := w.Records(); got != want {
		t.Errorf("records = %v, want %v", got, want)
	}
	if d := r.draws[0]; d.key != pipeline.KeyStorageDraw || r.vertexCounts[d.mesh] != 3 {
		t.Errorf("draw = %+v with %d vertices", d, r.vertexCounts[d.mesh])
	}
}

func TestModelWorkerInit(t *testing.T) {
	r := newFakeRenderer()
	w, err := newModelWorker(&workerConfig{width: 800, height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Init(r); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := w.Compute(r); err != nil {
		t.Fatal(err)
	}
	if err := w.Draw(r); err != nil {
		t.Fatal(err)
	}

	d := r.draws[0]
	if d.key != pipeline.KeyModel {
		t.Errorf("key = %q", d.key)
	}
	if d.instances != modelInstancesPerRow*modelInstancesPerRow {
		t.Errorf("instances = %d, want %d", d.instances, modelInstancesPerRow*modelInstancesPerRow)
	}
	if r.instanceCounts[d.mesh] != int(d.instances) {
		t.Errorf("instance buffer holds %d, draw asks %d", r.instanceCounts[d.mesh], d.instances)
	}

	mat := w.model.Material().BindGroupProvider()
	wantGroups := map[bind_group_provider.BindGroupProvider]bool{
		w.cam.BindGroupProvider():   true,
		w.light.BindGroupProvider(): true,
		mat:                         true,
	}
	if len(d.groups) != len(wantGroups) {
		t.Fatalf("groups = %d, want %d", len(d.groups), len(wantGroups))
	}
	for i, g := range d.groups {
		if !wantGroups[g] {
			t.Errorf("group %d = %v is not a model provider", i, g)
		}
	}
	if len(r.textures[mat]) != 1 || len(r.samplers[mat]) != 1 {
		t.Errorf("material bindings: textures %v samplers %v", r.textures[mat], r.samplers[mat])
	}

	uniform := w.cam.Uniform()
	if got := r.buffers[w.cam.BindGroupProvider()][0]; string(got) != string(uniform.Marshal()) {
		t.Error("camera uniform not uploaded")
	}
}

func TestTextureWorkersDraw(t *testing.T) {
	tests := []struct {
		kind      config.WorkerKind
		key       string
		vertices  int
		numGroups int
	}{
		{config.WorkerRenderTexture, pipeline.KeyTexture, 6, 1},
		{config.WorkerRenderToTexture, pipeline.KeySimple, 3, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r := newFakeRenderer()
			w, err := NewWorker(tt.kind)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Init(r); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if err := w.Draw(r); err != nil {
				t.Fatal(err)
			}

			d := r.draws[0]
			if d.key != tt.key {
				t.Errorf("key = %q, want %q", d.key, tt.key)
			}
			if r.vertexCounts[d.mesh] != tt.vertices {
				t.Errorf("vertices = %d, want %d", r.vertexCounts[d.mesh], tt.vertices)
			}
			if len(d.groups) != tt.numGroups {
				t.Errorf("groups = %d, want %d", len(d.groups), tt.numGroups)
			}
		})
	}
}

func TestOrderGroups(t *testing.T) {
	a := bind_group_provider.NewBindGroupProvider("a")
	b := bind_group_provider.NewBindGroupProvider("b")

	got, err := orderGroups(map[int]bind_group_provider.BindGroupProvider{1: b, 0: a})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != a || got[1] != b {
		t.Errorf("order = %v", got)
	}

	if _, err := orderGroups(map[int]bind_group_provider.BindGroupProvider{0: a, 2: b}); err == nil {
		t.Error("expected an error for a gap")
	}
}

func TestScene(t *testing.T) {
	s, err := NewScene(config.WorkerModel, WithSize(1024, 768), WithUpdateWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != string(config.WorkerModel) || !s.Active() {
		t.Errorf("name %q active %v", s.Name(), s.Active())
	}
	if !common.NearlyEqual(s.Camera().Lens().Aspect, 1024.0/768.0, 1e-6) {
		t.Errorf("aspect = %v", s.Camera().Lens().Aspect)
	}

	if err := s.Draw(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Draw before Init = %v", err)
	}

	r := newFakeRenderer()
	if err := s.Init(r); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if s.Renderer() == nil {
		t.Fatal("renderer not attached")
	}

	start := s.Camera().Controller().Position()
	s.Key(common.KeyW, true)
	s.Update(0.1)
	s.Key(common.KeyW, false)
	if s.Camera().Controller().Position() == start {
		t.Error("holding W did not move the camera")
	}

	s.Resize(0, 600)
	if !common.NearlyEqual(s.Camera().Lens().Aspect, 1024.0/768.0, 1e-6) {
		t.Error("zero width resize was applied")
	}
	s.Resize(600, 600)
	if !common.NearlyEqual(s.Camera().Lens().Aspect, 1, 1e-6) {
		t.Errorf("aspect after resize = %v", s.Camera().Lens().Aspect)
	}

	if err := s.Compute(); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	if err := s.AfterPresent(); err != nil {
		t.Fatal(err)
	}
	if len(r.draws) != 1 {
		t.Errorf("draws = %d, want 1", len(r.draws))
	}
}

func TestSceneUnknownWorker(t *testing.T) {
	if _, err := NewScene("Wireframe"); !errors.Is(err, config.ErrUnknownWorker) {
		t.Errorf("err = %v, want ErrUnknownWorker", err)
	}
}
