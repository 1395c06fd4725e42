package scene

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/interact"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// simpleVertexBufferSize is the capacity of the interactive vertex buffer in bytes.
	simpleVertexBufferSize = 1024

	// simpleCopies is the number of shifted copies pushed in the first frames.
	simpleCopies = 4

	simpleShiftStart float32 = 0.001
	simpleShiftStep  float32 = 100
)

// firstTriangle is the triangle the simple worker starts with, in pixels.
var firstTriangle = interact.NewTriangle(
	[3]mgl32.Vec3{{1000, 150.5, 0}, {300.5, 500.5, 0}, {1000.5, 200.5, 0}},
	mgl32.Vec3{1, 0, 0},
)

// simpleWorker draws click-highlighted triangles in pixel space.
type simpleWorker struct {
	mu *sync.Mutex

	triangles *interact.Triangles
	evaluator *interact.BatchEvaluator
	shift     float32
	copies    int

	width, height int

	// set when the GPU copy of the triangles or the controls is stale
	verticesDirty bool
	controlsDirty bool

	controls    bind_group_provider.BindGroupProvider
	mesh        bind_group_provider.BindGroupProvider
	initialized bool
}

var _ Worker = &simpleWorker{}

func newSimpleWorker(c *workerConfig) *simpleWorker {
	return &simpleWorker{
		mu:            &sync.Mutex{},
		triangles:     interact.NewTriangles(firstTriangle),
		evaluator:     interact.NewBatchEvaluator(max(runtime.NumCPU()-1, 1)),
		shift:         simpleShiftStart,
		width:         c.width,
		height:        c.height,
		verticesDirty: true,
		controlsDirty: true,
		controls:      bind_group_provider.NewBindGroupProvider("controls"),
		mesh:          bind_group_provider.NewBindGroupProvider("triangles"),
	}
}

func (w *simpleWorker) Kind() config.WorkerKind {
	return config.WorkerSimple
}

func (w *simpleWorker) Init(r renderer.Renderer) error {
	p, err := pipeline.Interactive()
	if err != nil {
		return err
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	group, ok := providerGroups(p.Shader(shader.ShaderTypeVertex))[shader.AnnotationArgControls]
	if !ok {
		group = 0
	}
	if err := initGroup(r, pipeline.KeyInteractive, group, w.controls, nil, nil); err != nil {
		return err
	}
	if err := r.InitVertexBuffer(w.mesh, simpleVertexBufferSize); err != nil {
		return err
	}

	w.mu.Lock()
	w.initialized = true
	w.mu.Unlock()
	return w.flush(r)
}

func (w *simpleWorker) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	w.controlsDirty = true
}

func (w *simpleWorker) Update(float32) {}

// Compute uploads the controls and vertices changed since the last frame.
func (w *simpleWorker) Compute(r renderer.Renderer) error {
	return w.flush(r)
}

func (w *simpleWorker) Draw(r renderer.Renderer) error {
	w.mu.Lock()
	ready := w.initialized
	w.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}
	return r.DrawCall(pipeline.KeyInteractive, w.mesh, 1, []bind_group_provider.BindGroupProvider{w.controls})
}

// AfterPresent pushes one shifted copy of the first triangle per frame until
// simpleCopies have been added.
func (w *simpleWorker) AfterPresent(r renderer.Renderer) error {
	if !w.pushCopy() {
		return nil
	}
	return w.flush(r)
}

// pushCopy adds the next shifted triangle and reports whether one was added.
func (w *simpleWorker) pushCopy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.copies >= simpleCopies {
		return false
	}
	w.copies++
	w.triangles.Push(firstTriangle.Translate(mgl32.Vec3{-w.shift, w.shift, 0}))
	w.shift += simpleShiftStep
	w.verticesDirty = true
	return true
}

func (w *simpleWorker) Key(int, bool) {}

func (w *simpleWorker) Click(x, y float32) {
	hits := w.triangles.Click(mgl32.Vec3{x, y, 0})

	w.mu.Lock()
	w.verticesDirty = true
	viewport := interact.NewGPUControls(w.width, w.height).Size
	w.mu.Unlock()

	if logger := common.Logger(); logger.Enabled(context.Background(), slog.LevelDebug) {
		highlighted := w.evaluator.Clicked(w.triangles.Vertices(), mgl32.Vec4(viewport))
		logger.Debug("click", "x", x, "y", y, "hits", hits, "highlighted_vertices", len(highlighted))
	}
}

func (w *simpleWorker) Drag(dx, dy float32) {
	w.triangles.MoveTo(mgl32.Vec3{dx, dy, 0})

	w.mu.Lock()
	w.verticesDirty = true
	w.mu.Unlock()
}

func (w *simpleWorker) Scroll(float32) {}

// flush writes the stale controls and vertex data to the GPU.
func (w *simpleWorker) flush(r renderer.Renderer) error {
	w.mu.Lock()
	if !w.initialized {
		w.mu.Unlock()
		return ErrNotInitialized
	}
	controlsDirty, verticesDirty := w.controlsDirty, w.verticesDirty
	w.controlsDirty, w.verticesDirty = false, false
	controls := interact.NewGPUControls(w.width, w.height)
	w.mu.Unlock()

	if controlsDirty {
		r.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: w.controls,
			Binding:  0,
			Data:     controls.Marshal(),
		}})
	}
	if verticesDirty {
		data := w.triangles.Marshal()
		if err := r.WriteVertexBuffer(w.mesh, 0, data, len(data)/interact.GPUVertexSize); err != nil {
			return err
		}
	}
	return nil
}
