package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// VertexOutput is the CPU mirror of the model pipeline's vertex stage output.
type VertexOutput struct {
	ClipPosition mgl32.Vec4
	TexCoord     mgl32.Vec2
}

// VertexStage is the reference implementation of the instanced model vertex stage.
// A nil instance means the draw is not instanced and the model matrix is the identity.
//
// Parameters:
//   - viewProj: the camera's view-projection matrix
//   - v: the mesh vertex
//   - inst: the per-instance data, or nil
//
// Returns:
//   - VertexOutput: clip position and forwarded UV
func VertexStage(viewProj mgl32.Mat4, v GPUVertex, inst *GPUInstance) VertexOutput {
	world := mgl32.Vec3(v.Position).Vec4(1)
	if inst != nil {
		world = inst.Matrix().Mul4x1(world)
	}
	return VertexOutput{
		ClipPosition: viewProj.Mul4x1(world),
		TexCoord:     v.TexCoord,
	}
}

// FragmentStage is the reference implementation of the model fragment stage: a
// nearest-neighbour, repeat-addressed sample of the diffuse texture returned unmodified.
// The result holds the stored texel values normalized to [0, 1].
//
// Parameters:
//   - tex: the diffuse texture
//   - uv: the interpolated texture coordinate
//
// Returns:
//   - mgl32.Vec4: the sampled RGBA color
func FragmentStage(tex *common.TextureStagingData, uv mgl32.Vec2) mgl32.Vec4 {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return mgl32.Vec4{}
	}

	x := texel(uv.X(), tex.Width)
	y := texel(uv.Y(), tex.Height)
	i := (y*int(tex.Width) + x) * 4
	p := tex.Pixels[i : i+4]
	return mgl32.Vec4{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		float32(p[3]) / 255,
	}
}

// texel maps a repeat-addressed coordinate onto a texel index in [0, size).
func texel(coord float32, size uint32) int {
	f := coord - float32(math.Floor(float64(coord)))
	idx := int(f * float32(size))
	if idx >= int(size) {
		idx = int(size) - 1
	}
	return idx
}
