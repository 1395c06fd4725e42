package model

import "github.com/go-gl/mathgl/mgl32"

// cubeFace describes one face of the unit cube by its outward normal and two in-plane
// axes whose cross product equals the normal.
type cubeFace struct {
	n, u, v mgl32.Vec3
}

var cubeFaces = [6]cubeFace{
	{n: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
	{n: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
	{n: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
	{n: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
	{n: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{n: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
}

// Cube builds a unit cube centred on the origin with per-face normals and UVs.
// Faces wind counter-clockwise when seen from outside.
//
// Returns:
//   - []GPUVertex: 24 vertices, four per face
//   - []uint32: 36 indices, two triangles per face
func Cube() ([]GPUVertex, []uint32) {
	corners := [4]struct {
		su, sv float32
		uv     [2]float32
	}{
		{-1, -1, [2]float32{0, 1}},
		{1, -1, [2]float32{1, 1}},
		{1, 1, [2]float32{1, 0}},
		{-1, 1, [2]float32{0, 0}},
	}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		center := f.n.Mul(0.5)
		for _, c := range corners {
			p := center.Add(f.u.Mul(0.5 * c.su)).Add(f.v.Mul(0.5 * c.sv))
			vertices = append(vertices, GPUVertex{
				Position: p,
				TexCoord: c.uv,
				Normal:   f.n,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// FullScreenQuad returns the two-triangle quad covering clip space with UVs
// mapping the top-left of the screen to (0, 0).
//
// Returns:
//   - []GPUTextureVertex: 6 vertices
func FullScreenQuad() []GPUTextureVertex {
	return []GPUTextureVertex{
		{Position: [3]float32{-1, -1, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, 1, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{-1, 1, 0}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{1, 1, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{-1, -1, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, -1, 0}, TexCoord: [2]float32{1, 1}},
	}
}

// ColorTriangle returns the red/green/blue pass-through triangle.
//
// Returns:
//   - []GPUColorVertex: 3 vertices
func ColorTriangle() []GPUColorVertex {
	return []GPUColorVertex{
		{Position: [3]float32{0, 0.5, 0}, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{-0.5, -0.5, 0}, Color: [3]float32{0, 1, 0}},
		{Position: [3]float32{0.5, -0.5, 0}, Color: [3]float32{0, 0, 1}},
	}
}

// Marshaler is implemented by every GPU vertex type in this package.
type Marshaler interface {
	Marshal() []byte
}

// MarshalVertices packs a slice of vertices back to back.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: the packed buffer
func MarshalVertices[T any, P interface {
	*T
	Marshaler
}](vertices []T) []byte {
	var out []byte
	for i := range vertices {
		out = append(out, P(&vertices[i]).Marshal()...)
	}
	return out
}
