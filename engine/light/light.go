package light

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// StepSize is the distance the light moves for each arrow key press.
const StepSize float32 = 0.05

// lightCount is used to assign each light a unique bind group provider label.
var lightCount atomic.Uint64

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	color    mgl32.Vec3

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Light defines the interface for the scene's point light.
//
// The light is uploaded as a single uniform at group 1 of the model pipeline.
// The arrow keys nudge it around the XZ plane.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	SetPosition(p mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	SetColor(c mgl32.Vec3)

	// ProcessKey moves the light by StepSize when an arrow key is pressed.
	// Up moves toward -Z, Down toward +Z, Left toward -X and Right toward +X.
	// Releases and other keys are ignored.
	//
	// Parameters:
	//   - key: the key code
	//   - pressed: true on press, false on release
	//
	// Returns:
	//   - bool: true if the light moved
	ProcessKey(key int, pressed bool) bool

	// Uniform builds the GPU light uniform.
	//
	// Returns:
	//   - GPULight: the uniform value
	Uniform() GPULight

	// BindGroupProvider returns the provider holding the light's uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider replaces the bind group provider.
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Light = &lightImpl{}

// NewLight creates a white point light at (2, 2, 2) with any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{2, 2, 2},
		color:    mgl32.Vec3{1, 1, 1},
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"light_" + strconv.FormatUint(lightCount.Load(), 10),
		),
	}
	for _, opt := range opts {
		opt(l)
	}
	lightCount.Add(1)
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

func (l *lightImpl) ProcessKey(key int, pressed bool) bool {
	if !pressed {
		return false
	}

	var shift mgl32.Vec3
	switch key {
	case common.KeyUp:
		shift = mgl32.Vec3{0, 0, -StepSize}
	case common.KeyDown:
		shift = mgl32.Vec3{0, 0, StepSize}
	case common.KeyLeft:
		shift = mgl32.Vec3{-StepSize, 0, 0}
	case common.KeyRight:
		shift = mgl32.Vec3{StepSize, 0, 0}
	default:
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = l.position.Add(shift)
	return true
}

func (l *lightImpl) Uniform() GPULight {
	l.mu.Lock()
	defer l.mu.Unlock()
	return GPULight{
		Position: l.position,
		Color:    l.color,
	}
}

func (l *lightImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bindGroupProvider
}

func (l *lightImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bindGroupProvider = provider
}
