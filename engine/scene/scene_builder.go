package scene

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
)

// sceneConfig carries options that are only read while the scene is built.
type sceneConfig struct {
	width, height int
	texturePath   string
}

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene, cfg *sceneConfig)

// WithName overrides the scene's identifier, which defaults to the worker kind.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene, _ *sceneConfig) {
		s.name = name
	}
}

// WithActive sets whether the scene is active for rendering. Scenes start active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene, _ *sceneConfig) {
		s.active = active
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - cam: the camera to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene, _ *sceneConfig) {
		s.cam = cam
	}
}

// WithLight replaces the default light.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene, _ *sceneConfig) {
		s.light = l
	}
}

// WithSize sets the initial surface size the camera and worker are built for.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSize(width, height int) SceneBuilderOption {
	return func(_ *scene, cfg *sceneConfig) {
		if width > 0 && height > 0 {
			cfg.width, cfg.height = width, height
		}
	}
}

// WithTexture sets the image file sampled by the textured workers.
//
// Parameters:
//   - path: the image path, empty for the built-in checkerboard
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTexture(path string) SceneBuilderOption {
	return func(_ *scene, cfg *sceneConfig) {
		cfg.texturePath = path
	}
}

// WithUpdateWorkers sets the number of goroutines used for the per-tick camera and worker
// updates. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of update workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateWorkers(n int) SceneBuilderOption {
	return func(s *scene, _ *sceneConfig) {
		if n < 1 {
			n = 1
		}
		s.updateWorkers = n
	}
}
