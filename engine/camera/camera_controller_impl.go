package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// safeFracPi2 keeps pitch away from the poles where the look-at basis degenerates.
const safeFracPi2 = math.Pi/2 - 0.0001

// scrollLineScale converts a wheel line into controller scroll units.
const scrollLineScale = 3.5

// cameraControllerImpl is the yaw/pitch implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// --- Pose ---
	position mgl32.Vec3
	yaw      float32
	pitch    float32

	// --- Tuning ---
	speed       float32
	sensitivity float32

	// --- Accumulated input ---
	amountLeft, amountRight       float32
	amountForward, amountBackward float32
	amountUp, amountDown          float32
	rotateHorizontal              float32
	rotateVertical                float32
	scroll                        float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a yaw/pitch controller.
// Defaults: position (0, 5, 10), yaw -90°, pitch -20°, speed 0.2, sensitivity 0.2.
//
// Parameters:
//   - options: variadic list of CameraControllerOption functions
//
// Returns:
//   - CameraController: the configured controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		position:    mgl32.Vec3{0, 5, 10},
		yaw:         mgl32.DegToRad(-90),
		pitch:       mgl32.DegToRad(-20),
		speed:       0.2,
		sensitivity: 0.2,
	}
	for _, opt := range options {
		opt(cc)
	}
	cc.pitch = clampPitch(cc.pitch)
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(p mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = p
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetOrientation(yaw, pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
	cc.pitch = clampPitch(pitch)
}

func (cc *cameraControllerImpl) Direction() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return direction(cc.yaw, cc.pitch)
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Add(direction(cc.yaw, cc.pitch))
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) Sensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.sensitivity
}

func (cc *cameraControllerImpl) ProcessKey(key int, pressed bool) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var amount float32
	if pressed {
		amount = 1
	}
	switch key {
	case common.KeyW, common.KeyUp:
		cc.amountForward = amount
	case common.KeyS, common.KeyDown:
		cc.amountBackward = amount
	case common.KeyA, common.KeyLeft:
		cc.amountLeft = amount
	case common.KeyD, common.KeyRight:
		cc.amountRight = amount
	case common.KeySpace:
		cc.amountUp = amount
	case common.KeyLeftShift, common.KeyRightShift:
		cc.amountDown = amount
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) ProcessDrag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotateHorizontal += dx
	cc.rotateVertical += dy
}

func (cc *cameraControllerImpl) ProcessScroll(lines float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.scroll = -lines * scrollLineScale
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	// --- Translation in the horizontal plane ---
	sinYaw, cosYaw := sincos(cc.yaw)
	forward := mgl32.Vec3{cosYaw, 0, sinYaw}.Normalize()
	right := mgl32.Vec3{-sinYaw, 0, cosYaw}.Normalize()
	cc.position = cc.position.Add(forward.Mul((cc.amountForward - cc.amountBackward) * cc.speed * dt))
	cc.position = cc.position.Add(right.Mul((cc.amountRight - cc.amountLeft) * cc.speed * dt))

	// --- Zoom along the look direction ---
	scrollward := direction(cc.yaw, cc.pitch)
	cc.position = cc.position.Add(scrollward.Mul(cc.scroll * cc.speed * cc.sensitivity * dt))
	cc.scroll = 0

	// --- Vertical ---
	cc.position[1] += (cc.amountUp - cc.amountDown) * cc.speed * dt

	// --- Rotation ---
	cc.yaw += cc.rotateHorizontal * cc.sensitivity * dt
	cc.pitch += -cc.rotateVertical * cc.sensitivity * dt
	cc.rotateHorizontal = 0
	cc.rotateVertical = 0
	cc.pitch = clampPitch(cc.pitch)
}

// direction returns the unit look vector for the given yaw and pitch.
func direction(yaw, pitch float32) mgl32.Vec3 {
	sinPitch, cosPitch := sincos(pitch)
	sinYaw, cosYaw := sincos(yaw)
	return mgl32.Vec3{cosPitch * cosYaw, sinPitch, cosPitch * sinYaw}.Normalize()
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, -safeFracPi2, safeFracPi2)
}
