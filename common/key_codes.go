package common

// Key codes delivered by window key callbacks. They follow GLFW, where printable keys
// use their upper-case ASCII value.
// Reference: https://www.glfw.org/docs/latest/group__keys.html
const (
	KeyW     = 'W'
	KeyA     = 'A'
	KeyS     = 'S'
	KeyD     = 'D'
	KeyQ     = 'Q'
	KeySpace = ' '

	KeyEscape     = 256
	KeyRight      = 262
	KeyLeft       = 263
	KeyDown       = 264
	KeyUp         = 265
	KeyLeftShift  = 340
	KeyRightShift = 344
)
