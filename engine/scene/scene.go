package scene

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
)

// Scene owns one Worker together with the camera and light it renders through, and
// forwards engine callbacks to all three. Scenes can be toggled via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Worker returns the scene's worker.
	Worker() Worker

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Light returns the scene's light.
	Light() light.Light

	// Renderer returns the renderer attached by Init, or nil.
	Renderer() renderer.Renderer

	// Init attaches the renderer and initializes the worker's GPU resources.
	//
	// Parameters:
	//   - r: the renderer the scene draws with
	//
	// Returns:
	//   - error: the worker's initialization error
	Init(r renderer.Renderer) error

	// Update advances the camera and the worker by deltaTime seconds. Both run on the
	// scene's worker pool and Update returns once both are done.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Update(deltaTime float32)

	// Compute runs the worker's compute phase. Must be called within a
	// BeginComputeFrame/EndComputeFrame block on the renderer.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the worker's error
	Compute() error

	// Draw issues the worker's draw calls. Must be called within a BeginFrame/EndFrame
	// block on the renderer.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the worker's error
	Draw() error

	// AfterPresent runs the worker's post-present phase.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the worker's error
	AfterPresent() error

	// Resize propagates a new surface size to the camera and the worker.
	Resize(width, height int)

	// Key forwards a key press or release to the camera controller, the light and the worker.
	Key(code int, down bool)

	// Click forwards a left click at a pixel position to the worker.
	Click(x, y float32)

	// Drag forwards a left-button drag to the camera controller and the worker.
	Drag(dx, dy float32)

	// Scroll forwards a scroll wheel step to the camera controller and the worker.
	Scroll(dy float32)
}

// scene implements the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	w     Worker
	cam   camera.Camera
	light light.Light
	r     renderer.Renderer

	// updatePool runs the per-tick camera and worker updates. Workers persist across
	// ticks, avoiding per-tick goroutine spawn/teardown overhead.
	updatePool    worker.DynamicWorkerPool
	updateWorkers int
	taskID        int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a Scene running the worker for kind. The camera and light default to
// camera.NewCamera and light.NewLight sized to the scene and are shared with the worker.
//
// Parameters:
//   - kind: the worker to run
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: config.ErrUnknownWorker, or the worker's construction error
func NewScene(kind config.WorkerKind, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		mu:            &sync.RWMutex{},
		name:          string(kind),
		active:        true,
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}
	cfg := &sceneConfig{width: 800, height: 600}
	for _, option := range options {
		option(s, cfg)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	s.cam.Resize(cfg.width, cfg.height)
	if s.light == nil {
		s.light = light.NewLight()
	}

	w, err := NewWorker(kind,
		WithWorkerCamera(s.cam),
		WithWorkerLight(s.light),
		WithWorkerSize(cfg.width, cfg.height),
		WithTexturePath(cfg.texturePath),
	)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.name, err)
	}
	s.w = w

	// Initialize the pool after options so WithUpdateWorkers can override the default.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)
	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Worker() Worker {
	return s.w
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Light() light.Light {
	return s.light
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Init(r renderer.Renderer) error {
	if err := s.w.Init(r); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}
	s.mu.Lock()
	s.r = r
	s.mu.Unlock()
	common.Logger().Info("scene initialized", "scene", s.name, "worker", s.w.Kind())
	return nil
}

func (s *scene) Update(deltaTime float32) {
	// pool.Wait blocks until workers idle out, so each tick gets its own barrier
	var wg sync.WaitGroup
	for _, fn := range []func(){
		func() { s.cam.Update(deltaTime) },
		func() { s.w.Update(deltaTime) },
	} {
		wg.Add(1)
		s.mu.Lock()
		id := s.taskID
		s.taskID++
		s.mu.Unlock()

		s.updatePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn()
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *scene) Compute() error {
	r := s.Renderer()
	if r == nil {
		return ErrNotInitialized
	}
	return s.w.Compute(r)
}

func (s *scene) Draw() error {
	r := s.Renderer()
	if r == nil {
		return ErrNotInitialized
	}
	return s.w.Draw(r)
}

func (s *scene) AfterPresent() error {
	r := s.Renderer()
	if r == nil {
		return ErrNotInitialized
	}
	return s.w.AfterPresent(r)
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.cam.Resize(width, height)
	s.w.Resize(width, height)
}

func (s *scene) Key(code int, down bool) {
	s.cam.Controller().ProcessKey(code, down)
	s.light.ProcessKey(code, down)
	s.w.Key(code, down)
}

func (s *scene) Click(x, y float32) {
	s.w.Click(x, y)
}

func (s *scene) Drag(dx, dy float32) {
	s.cam.Controller().ProcessDrag(dx, dy)
	s.w.Drag(dx, dy)
}

func (s *scene) Scroll(dy float32) {
	s.cam.Controller().ProcessScroll(dy)
	s.w.Scroll(dy)
}
