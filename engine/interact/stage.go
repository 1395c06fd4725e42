package interact

import "github.com/go-gl/mathgl/mgl32"

// HighlightTint is added to a clicked fragment's translucent base color.
var HighlightTint = mgl32.Vec4{0.235, 0.564, 1.0, 0.0}

// HighlightAlpha is the base alpha of a clicked fragment before the tint is added.
const HighlightAlpha float32 = 0.3

// VertexOutput is what the interactive vertex stage hands to the rasterizer.
type VertexOutput struct {
	// ClipPosition is the clip-space position with w = 1.
	ClipPosition mgl32.Vec4

	// Color is the vertex color forwarded untouched.
	Color mgl32.Vec3

	// Click is the flat-interpolated click flag, 0 or 1.
	Click ScalarFlag
}

// VertexStage evaluates the interactive vertex stage for a single vertex.
// Pre-transformed vertices keep their position; all others go through MapToClip.
//
// Parameters:
//   - v: the input vertex
//   - viewport: the Controls size uniform (width, height, 0, 0)
//
// Returns:
//   - VertexOutput: clip position, color and flat click flag
func VertexStage(v GPUVertex, viewport mgl32.Vec4) VertexOutput {
	flags := Decode(v.Controls[0])
	pos := mgl32.Vec3(v.Position)
	if !flags.IsPretransformed {
		pos = MapToClip(pos, viewport)
	}

	var click ScalarFlag
	if flags.IsClick {
		click = 1
	}
	return VertexOutput{
		ClipPosition: pos.Vec4(1),
		Color:        mgl32.Vec3(v.Color),
		Click:        click,
	}
}

// HighlightStage evaluates the click highlight fragment stage.
// The result is not clamped.
//
// Parameters:
//   - color: the interpolated base color
//   - flag: the click flag in whichever wire shape the pipeline uses
//
// Returns:
//   - mgl32.Vec4: the fragment color
func HighlightStage(color mgl32.Vec3, flag ClickCarrier) mgl32.Vec4 {
	if flag.Clicked() {
		return color.Vec4(HighlightAlpha).Add(HighlightTint)
	}
	return color.Vec4(1)
}
