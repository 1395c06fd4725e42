package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shade/engine/storage"
	"github.com/cogentcore/webgpu/wgpu"
)

// kernelWorkgroups dispatches the storage kernel exactly once per frame.
var kernelWorkgroups = [3]uint32{1, 1, 1}

// RecordSource is implemented by workers that keep a host copy of the storage records.
type RecordSource interface {
	// Records returns the arena as of the last readback.
	Records() storage.Arena
}

// customWorker runs the storage mutation kernel on the GPU every frame and rescales the
// records on the CPU after each present.
type customWorker struct {
	mu *sync.Mutex

	records bind_group_provider.BindGroupProvider
	mesh    bind_group_provider.BindGroupProvider
	binding int

	scaler storage.ReadbackScaler
	arena  storage.Arena
	frames uint64

	initialized bool
}

var (
	_ Worker       = &customWorker{}
	_ RecordSource = &customWorker{}
)

func newCustomWorker() *customWorker {
	return &customWorker{
		mu:      &sync.Mutex{},
		records: bind_group_provider.NewBindGroupProvider("records"),
		mesh:    bind_group_provider.NewBindGroupProvider("kernel_triangle"),
	}
}

func (w *customWorker) Kind() config.WorkerKind {
	return config.WorkerCustom
}

func (w *customWorker) Init(r renderer.Renderer) error {
	pipes, err := pipeline.Storage()
	if err != nil {
		return err
	}
	if err := r.RegisterPipelines(pipes...); err != nil {
		return err
	}

	kernel := pipes[0].Shader(shader.ShaderTypeCompute)
	group, ok := providerGroups(kernel)[shader.AnnotationArgStorageRecord]
	if !ok {
		return fmt.Errorf("%s declares no storage records", kernel.Key())
	}
	if group != 0 {
		return fmt.Errorf("%s: records at group %d, the kernel dispatch binds group 0", kernel.Key(), group)
	}

	// the records are copied out for readback after every present
	usage := map[int]wgpu.BufferUsage{w.binding: wgpu.BufferUsageCopySrc}
	sizes := map[int]uint64{w.binding: storage.ArenaBytes}
	if err := initGroup(r, pipeline.KeyStorageKernel, group, w.records, usage, sizes); err != nil {
		return err
	}

	triangle := model.ColorTriangle()
	if err := r.InitMeshBuffers(w.mesh, model.MarshalVertices(triangle), len(triangle), nil, 0); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: w.records,
		Binding:  w.binding,
		Data:     w.arena.Marshal(),
	}})
	w.initialized = true
	return nil
}

func (w *customWorker) Resize(int, int) {}

func (w *customWorker) Update(float32) {}

func (w *customWorker) Compute(r renderer.Renderer) error {
	if !w.ready() {
		return ErrNotInitialized
	}
	return r.DispatchCompute(pipeline.KeyStorageKernel, w.records, kernelWorkgroups)
}

func (w *customWorker) Draw(r renderer.Renderer) error {
	if !w.ready() {
		return ErrNotInitialized
	}
	return r.DrawCall(pipeline.KeyStorageDraw, w.mesh, 1, nil)
}

// AfterPresent reads the records back, rescales them and uploads the result.
func (w *customWorker) AfterPresent(r renderer.Renderer) error {
	if !w.ready() {
		return ErrNotInitialized
	}
	buf, err := r.ReadBuffer(w.records, w.binding)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	scaled, err := w.scaler.ScaleBytes(buf)
	if err != nil {
		return err
	}
	if err := w.arena.Unmarshal(scaled); err != nil {
		return err
	}
	w.frames++
	common.Logger().Debug("storage readback", "frame", w.frames, "counter", w.scaler.Counter())
	r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: w.records,
		Binding:  w.binding,
		Data:     scaled,
	}})
	return nil
}

func (w *customWorker) Key(int, bool) {}

func (w *customWorker) Click(float32, float32) {}

func (w *customWorker) Drag(float32, float32) {}

func (w *customWorker) Scroll(float32) {}

// Records returns the arena as last uploaded after a readback.
func (w *customWorker) Records() storage.Arena {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.arena
}

func (w *customWorker) ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initialized
}
