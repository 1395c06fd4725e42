package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount numbers the bind group provider labels.
var cameraCount atomic.Uint64

// Lens holds the projection parameters. Fov is vertical, in radians.
type Lens struct {
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
}

// Matrices is everything a camera derives from its pose and lens.
type Matrices struct {
	View              mgl32.Mat4
	Projection        mgl32.Mat4
	ViewProjection    mgl32.Mat4
	InverseProjection mgl32.Mat4
	InverseView       mgl32.Mat4
}

type cameraImpl struct {
	mu sync.Mutex

	up       mgl32.Vec3
	lens     Lens
	matrices Matrices

	controller CameraController
	provider   bind_group_provider.BindGroupProvider
}

// Camera is a perspective camera posed by a CameraController. Projections target the
// WebGPU depth range [0, 1].
type Camera interface {
	// Up returns the world up vector.
	Up() mgl32.Vec3

	// Lens returns the current projection parameters.
	Lens() Lens

	// Matrices returns the matrices as of the last Update or Resize.
	Matrices() Matrices

	Controller() CameraController

	// BindGroupProvider returns the provider holding the camera uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update advances the controller by dt seconds and recomputes the matrices.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Resize sets the aspect ratio for a surface of the given size. Zero sizes are ignored.
	Resize(width, height int)

	// Uniform builds the camera uniform from the current pose and matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the value written to the camera buffer
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera. Defaults: fov 45 degrees, aspect 1, clip planes 0.1 and
// 100, up +Y, and a NewCameraController.
//
// Parameters:
//   - options: lens, up vector and controller options
//
// Returns:
//   - Camera: the camera with its matrices computed
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		up:       mgl32.Vec3{0, 1, 0},
		lens:     Lens{Fov: mgl32.DegToRad(45), Aspect: 1, Near: 0.1, Far: 100},
		provider: bind_group_provider.NewBindGroupProvider("camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10)),
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.recompute()
	return c
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Lens() Lens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lens
}

func (c *cameraImpl) Matrices() Matrices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrices
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.provider
}

func (c *cameraImpl) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller.Update(dt)
	c.recompute()
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.Aspect = float32(width) / float32(height)
	c.recompute()
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewPosition: c.controller.Position().Vec4(1),
		View:         c.matrices.View,
		ViewProj:     c.matrices.ViewProjection,
		InvProj:      c.matrices.InverseProjection,
		InvView:      c.matrices.InverseView,
	}
}

// recompute derives the matrices from the controller pose and the lens. The caller must
// hold c.mu, except during construction.
func (c *cameraImpl) recompute() {
	eye := c.controller.Position()
	view := mgl32.LookAtV(eye, eye.Add(c.controller.Direction()), c.up)
	proj := common.Perspective(c.lens.Fov, c.lens.Aspect, c.lens.Near, c.lens.Far)
	c.matrices = Matrices{
		View:              view,
		Projection:        proj,
		ViewProjection:    proj.Mul4(view),
		InverseProjection: proj.Inv(),
		InverseView:       view.Inv(),
	}
}
