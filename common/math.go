package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OpenGLToWGPU remaps the OpenGL clip-space depth range [-1, 1] produced by mgl32
// projections into the WebGPU depth range [0, 1]. Column-major.
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective builds a right-handed perspective projection targeting the WebGPU depth range.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	return OpenGLToWGPU.Mul4(mgl32.Perspective(fovY, aspect, near, far))
}

// PutFloat32s writes values as little-endian float32 words into buf starting at offset.
//
// Parameters:
//   - buf: destination buffer
//   - offset: byte offset of the first word
//   - values: the values to write
//
// Returns:
//   - int: the byte offset just past the last written word
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// Float32At reads a little-endian float32 from buf at offset.
func Float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

// PutMat4 writes a column-major 4x4 matrix (64 bytes) into buf at offset.
//
// Parameters:
//   - buf: destination buffer
//   - offset: byte offset of the first element
//   - m: the matrix to write
//
// Returns:
//   - int: the byte offset just past the matrix
func PutMat4(buf []byte, offset int, m mgl32.Mat4) int {
	return PutFloat32s(buf, offset, m[:]...)
}

// NearlyEqual reports whether a and b differ by no more than eps.
func NearlyEqual(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}
