package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines a first-person yaw/pitch camera controller.
// Controllers own positional state and accumulate input between updates.
// Camera reads from the controller and computes the view and projection matrices.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - p: world-space coordinates
	SetPosition(p mgl32.Vec3)

	// Yaw returns the horizontal angle in radians. -π/2 looks down -Z.
	Yaw() float32

	// Pitch returns the vertical angle in radians, clamped to just under ±π/2.
	Pitch() float32

	// SetOrientation sets yaw and pitch directly. Pitch is clamped.
	//
	// Parameters:
	//   - yaw: horizontal angle in radians
	//   - pitch: vertical angle in radians
	SetOrientation(yaw, pitch float32)

	// Direction returns the normalized look direction derived from yaw and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: unit look direction
	Direction() mgl32.Vec3

	// Target returns a point one unit ahead of the camera along Direction.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target
	Target() mgl32.Vec3

	// ProcessKey records a movement key press or release.
	//
	// Parameters:
	//   - key: the GLFW key code
	//   - pressed: true on press, false on release
	//
	// Returns:
	//   - bool: true if the key is a movement key
	ProcessKey(key int, pressed bool) bool

	// ProcessDrag accumulates a rotation from a mouse drag, already scaled to the controller's units.
	//
	// Parameters:
	//   - dx, dy: horizontal and vertical rotation input
	ProcessDrag(dx, dy float32)

	// ProcessScroll records a scroll wheel step in lines.
	//
	// Parameters:
	//   - lines: wheel delta, positive away from the user
	ProcessScroll(lines float32)

	// Update applies the accumulated input over dt seconds and clears the one-shot inputs.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Speed returns the translation speed in units per second.
	Speed() float32

	// Sensitivity returns the rotation sensitivity.
	Sensitivity() float32
}
