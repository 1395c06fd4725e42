package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotInitialized is returned by the frame methods of a Worker whose Init has not succeeded.
var ErrNotInitialized = errors.New("scene: worker not initialized")

// Worker is one demo program driven by the engine loop.
//
// The engine calls Init once, then per frame Compute inside a compute frame, Draw inside
// the render pass and AfterPresent once the surface has been presented. Update runs on the
// tick loop and the input methods run on the window thread, so implementations guard
// their state.
type Worker interface {
	// Kind returns the WorkerKind the worker was built for.
	Kind() config.WorkerKind

	// Init registers the worker's pipelines and creates its GPU resources.
	//
	// Parameters:
	//   - r: the renderer to create resources on
	//
	// Returns:
	//   - error: an error if a pipeline or resource could not be created
	Init(r renderer.Renderer) error

	// Resize records a new surface size in pixels.
	Resize(width, height int)

	// Update advances CPU-side state by dt seconds.
	Update(dt float32)

	// Compute uploads uniforms and encodes compute dispatches for the frame.
	Compute(r renderer.Renderer) error

	// Draw encodes the worker's draw calls into the current render pass.
	Draw(r renderer.Renderer) error

	// AfterPresent runs once the frame has been presented.
	AfterPresent(r renderer.Renderer) error

	// Key handles a key press or release.
	Key(code int, down bool)

	// Click handles a left click at a pixel position.
	Click(x, y float32)

	// Drag handles cursor movement with the left button held, in pixels.
	Drag(dx, dy float32)

	// Scroll handles a scroll wheel step.
	Scroll(dy float32)
}

// workerConfig is the shared input of the worker constructors.
type workerConfig struct {
	cam         camera.Camera
	light       light.Light
	texturePath string
	width       int
	height      int
}

// WorkerBuilderOption is a functional option for NewWorker.
type WorkerBuilderOption func(*workerConfig)

// WithWorkerCamera sets the camera a 3D worker renders through.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - WorkerBuilderOption: option function to apply
func WithWorkerCamera(cam camera.Camera) WorkerBuilderOption {
	return func(c *workerConfig) {
		c.cam = cam
	}
}

// WithWorkerLight sets the light a 3D worker binds.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - WorkerBuilderOption: option function to apply
func WithWorkerLight(l light.Light) WorkerBuilderOption {
	return func(c *workerConfig) {
		c.light = l
	}
}

// WithTexturePath sets the image the textured workers sample. Empty uses a checkerboard.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - WorkerBuilderOption: option function to apply
func WithTexturePath(path string) WorkerBuilderOption {
	return func(c *workerConfig) {
		c.texturePath = path
	}
}

// WithWorkerSize sets the initial surface size.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - WorkerBuilderOption: option function to apply
func WithWorkerSize(width, height int) WorkerBuilderOption {
	return func(c *workerConfig) {
		c.width = width
		c.height = height
	}
}

// NewWorker builds the worker for kind. The Model worker creates a default camera and
// light when none are supplied.
//
// Parameters:
//   - kind: the worker to build
//   - options: WorkerBuilderOption functions
//
// Returns:
//   - Worker: the worker, not yet initialized
//   - error: config.ErrUnknownWorker for an unknown kind, or a texture load error
func NewWorker(kind config.WorkerKind, options ...WorkerBuilderOption) (Worker, error) {
	c := &workerConfig{width: 800, height: 600}
	for _, opt := range options {
		opt(c)
	}

	switch kind {
	case config.WorkerSimple:
		return newSimpleWorker(c), nil
	case config.WorkerCustom:
		return newCustomWorker(), nil
	case config.WorkerModel:
		return newModelWorker(c)
	case config.WorkerRenderTexture:
		return newRenderTextureWorker(c)
	case config.WorkerRenderToTexture:
		return newRenderToTextureWorker(), nil
	}
	return nil, fmt.Errorf("%w %q", config.ErrUnknownWorker, kind)
}

// providerGroups maps each provider named by a shader's annotations to its @group index.
func providerGroups(s shader.Shader) map[shader.AnnotationArg]int {
	groups := make(map[shader.AnnotationArg]int)
	for _, decl := range s.Declarations() {
		if decl.Group == nil {
			continue
		}
		if p := decl.Provider(); p != "" {
			if _, seen := groups[p]; !seen {
				groups[p] = *decl.Group
			}
		}
	}
	return groups
}

// initGroup creates the bind group of provider from the layout the pipeline expects at group.
func initGroup(r renderer.Renderer, pipelineKey string, group int, provider bind_group_provider.BindGroupProvider, usage map[int]wgpu.BufferUsage, sizes map[int]uint64) error {
	desc, err := r.BindGroupLayoutDescriptor(pipelineKey, group)
	if err != nil {
		return err
	}
	if err := r.InitBindGroup(provider, desc, usage, sizes); err != nil {
		return fmt.Errorf("%s bind group %d: %w", pipelineKey, group, err)
	}
	return nil
}
