package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

const (
	modelInstancesPerRow        = 10
	modelInstanceSpacing float32 = 3.0
)

// modelWorker draws a textured cube instanced over a grid, seen through the camera.
// The owning Scene feeds input to the camera and light; the worker uploads their uniforms.
type modelWorker struct {
	mu *sync.Mutex

	cam   camera.Camera
	light light.Light
	model model.Model

	// bind groups in @group order
	groups      []bind_group_provider.BindGroupProvider
	initialized bool
}

var _ Worker = &modelWorker{}

func newModelWorker(c *workerConfig) (*modelWorker, error) {
	cam := c.cam
	if cam == nil {
		cam = camera.NewCamera()
		cam.Resize(c.width, c.height)
	}
	l := c.light
	if l == nil {
		l = light.NewLight()
	}

	mat, err := loadMaterial("cube_diffuse", c.texturePath)
	if err != nil {
		return nil, err
	}

	return &modelWorker{
		mu:    &sync.Mutex{},
		cam:   cam,
		light: l,
		model: model.NewModel(
			model.WithName("cube"),
			model.WithInstanceGrid(modelInstancesPerRow, modelInstanceSpacing),
			model.WithMaterial(mat),
		),
	}, nil
}

func (w *modelWorker) Kind() config.WorkerKind {
	return config.WorkerModel
}

func (w *modelWorker) Init(r renderer.Renderer) error {
	p, err := pipeline.Model()
	if err != nil {
		return err
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	declared := providerGroups(p.Shader(shader.ShaderTypeVertex))
	providers := map[shader.AnnotationArg]bind_group_provider.BindGroupProvider{
		shader.AnnotationArgCamera: w.cam.BindGroupProvider(),
		shader.AnnotationArgLight:  w.light.BindGroupProvider(),
	}

	groups := make(map[int]bind_group_provider.BindGroupProvider, len(providers)+1)
	for name, provider := range providers {
		group, ok := declared[name]
		if !ok {
			return fmt.Errorf("%s declares no %s group", pipeline.KeyModel, name)
		}
		if err := initGroup(r, pipeline.KeyModel, group, provider, nil, nil); err != nil {
			return err
		}
		groups[group] = provider
	}

	mat := w.model.Material()
	matGroup, err := initMaterial(r, pipeline.KeyModel, p.Shader(shader.ShaderTypeFragment), mat)
	if err != nil {
		return err
	}
	groups[matGroup] = mat.BindGroupProvider()

	ordered, err := orderGroups(groups)
	if err != nil {
		return fmt.Errorf("%s: %w", pipeline.KeyModel, err)
	}

	mesh := w.model.MeshProvider()
	if err := r.InitMeshBuffers(mesh, w.model.VertexData(), w.model.VertexCount(), w.model.IndexData(), w.model.IndexCount()); err != nil {
		return err
	}
	if err := r.InitInstanceBuffer(mesh, w.model.InstanceData(), w.model.InstanceCount()); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.groups = ordered
	w.initialized = true
	return nil
}

func (w *modelWorker) Resize(int, int) {}

func (w *modelWorker) Update(float32) {}

// Compute uploads the camera and light uniforms for the frame.
func (w *modelWorker) Compute(r renderer.Renderer) error {
	if !w.ready() {
		return ErrNotInitialized
	}
	camUniform := w.cam.Uniform()
	lightUniform := w.light.Uniform()
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: w.cam.BindGroupProvider(), Binding: 0, Data: camUniform.Marshal()},
		{Provider: w.light.BindGroupProvider(), Binding: 0, Data: lightUniform.Marshal()},
	})
	return nil
}

func (w *modelWorker) Draw(r renderer.Renderer) error {
	w.mu.Lock()
	groups, ready := w.groups, w.initialized
	w.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}
	return r.DrawCall(pipeline.KeyModel, w.model.MeshProvider(), uint32(w.model.InstanceCount()), groups)
}

func (w *modelWorker) AfterPresent(renderer.Renderer) error {
	return nil
}

func (w *modelWorker) Key(int, bool) {}

func (w *modelWorker) Click(float32, float32) {}

func (w *modelWorker) Drag(float32, float32) {}

func (w *modelWorker) Scroll(float32) {}

func (w *modelWorker) ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initialized
}

// orderGroups lays bind groups out by @group index. Every index below the highest must be present.
func orderGroups(groups map[int]bind_group_provider.BindGroupProvider) ([]bind_group_provider.BindGroupProvider, error) {
	ordered := make([]bind_group_provider.BindGroupProvider, len(groups))
	for g, provider := range groups {
		if g < 0 || g >= len(ordered) {
			return nil, fmt.Errorf("bind group %d leaves a gap in %d groups", g, len(groups))
		}
		ordered[g] = provider
	}
	return ordered, nil
}
