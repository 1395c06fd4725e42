package interact

import "github.com/go-gl/mathgl/mgl32"

// MapToClip maps a pixel-space position into clip space for the given viewport.
// X grows right and Y grows down in pixel space; clip-space Y grows up.
// Z passes through untouched. A zero viewport dimension yields an undefined result.
//
// Parameters:
//   - position: pixel-space position
//   - viewport: viewport size in x (width) and y (height); z and w are unused
//
// Returns:
//   - mgl32.Vec3: the clip-space position
func MapToClip(position mgl32.Vec3, viewport mgl32.Vec4) mgl32.Vec3 {
	halfW := viewport.X() / 2
	halfH := viewport.Y() / 2

	var x, y float32
	if position.X() > halfW {
		x = position.X()/halfW - 1
	} else {
		x = -(1 - position.X()/halfW)
	}
	if position.Y() > halfH {
		y = -(position.Y()/halfH - 1)
	} else {
		y = 1 - position.Y()/halfH
	}
	return mgl32.Vec3{x, y, position.Z()}
}
