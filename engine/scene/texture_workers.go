package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

// renderTextureWorker samples a decoded texture over a full-screen quad.
type renderTextureWorker struct {
	mu *sync.Mutex

	mat  material.Material
	mesh bind_group_provider.BindGroupProvider

	groups      []bind_group_provider.BindGroupProvider
	initialized bool
}

var _ Worker = &renderTextureWorker{}

func newRenderTextureWorker(c *workerConfig) (*renderTextureWorker, error) {
	mat, err := loadMaterial("screen", c.texturePath)
	if err != nil {
		return nil, err
	}
	return &renderTextureWorker{
		mu:   &sync.Mutex{},
		mat:  mat,
		mesh: bind_group_provider.NewBindGroupProvider("screen_quad"),
	}, nil
}

func (w *renderTextureWorker) Kind() config.WorkerKind {
	return config.WorkerRenderTexture
}

func (w *renderTextureWorker) Init(r renderer.Renderer) error {
	p, err := pipeline.Texture()
	if err != nil {
		return err
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	group, err := initMaterial(r, pipeline.KeyTexture, p.Shader(shader.ShaderTypeFragment), w.mat)
	if err != nil {
		return err
	}
	groups, err := orderGroups(map[int]bind_group_provider.BindGroupProvider{group: w.mat.BindGroupProvider()})
	if err != nil {
		return err
	}

	quad := model.FullScreenQuad()
	if err := r.InitMeshBuffers(w.mesh, model.MarshalVertices(quad), len(quad), nil, 0); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.groups = groups
	w.initialized = true
	return nil
}

func (w *renderTextureWorker) Resize(int, int) {}

func (w *renderTextureWorker) Update(float32) {}

func (w *renderTextureWorker) Compute(renderer.Renderer) error {
	return nil
}

func (w *renderTextureWorker) Draw(r renderer.Renderer) error {
	w.mu.Lock()
	groups, ready := w.groups, w.initialized
	w.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}
	return r.DrawCall(pipeline.KeyTexture, w.mesh, 1, groups)
}

func (w *renderTextureWorker) AfterPresent(renderer.Renderer) error {
	return nil
}

func (w *renderTextureWorker) Key(int, bool) {}

func (w *renderTextureWorker) Click(float32, float32) {}

func (w *renderTextureWorker) Drag(float32, float32) {}

func (w *renderTextureWorker) Scroll(float32) {}

// renderToTextureWorker draws the plain colored triangle with the pass-through pipeline.
type renderToTextureWorker struct {
	mu *sync.Mutex

	mesh        bind_group_provider.BindGroupProvider
	initialized bool
}

var _ Worker = &renderToTextureWorker{}

func newRenderToTextureWorker() *renderToTextureWorker {
	return &renderToTextureWorker{
		mu:   &sync.Mutex{},
		mesh: bind_group_provider.NewBindGroupProvider("color_triangle"),
	}
}

func (w *renderToTextureWorker) Kind() config.WorkerKind {
	return config.WorkerRenderToTexture
}

func (w *renderToTextureWorker) Init(r renderer.Renderer) error {
	p, err := pipeline.Simple()
	if err != nil {
		return err
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	triangle := model.ColorTriangle()
	if err := r.InitMeshBuffers(w.mesh, model.MarshalVertices(triangle), len(triangle), nil, 0); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.initialized = true
	return nil
}

func (w *renderToTextureWorker) Resize(int, int) {}

func (w *renderToTextureWorker) Update(float32) {}

func (w *renderToTextureWorker) Compute(renderer.Renderer) error {
	return nil
}

func (w *renderToTextureWorker) Draw(r renderer.Renderer) error {
	w.mu.Lock()
	ready := w.initialized
	w.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}
	return r.DrawCall(pipeline.KeySimple, w.mesh, 1, nil)
}

func (w *renderToTextureWorker) AfterPresent(renderer.Renderer) error {
	return nil
}

func (w *renderToTextureWorker) Key(int, bool) {}

func (w *renderToTextureWorker) Click(float32, float32) {}

func (w *renderToTextureWorker) Drag(float32, float32) {}

func (w *renderToTextureWorker) Scroll(float32) {}
