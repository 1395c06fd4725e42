package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (272 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 272 bytes.
type GPUCameraUniform struct {
	ViewPosition [4]float32 // offset   0: world-space eye position, w = 1 (vec4<f32>)
	View         mgl32.Mat4 // offset  16: world to view (mat4x4<f32>)
	ViewProj     mgl32.Mat4 // offset  80: world to clip (mat4x4<f32>)
	InvProj      mgl32.Mat4 // offset 144: clip to view (mat4x4<f32>)
	InvView      mgl32.Mat4 // offset 208: view to world (mat4x4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (272)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.ViewPosition[:]...)
	off = common.PutMat4(buf, off, g.View)
	off = common.PutMat4(buf, off, g.ViewProj)
	off = common.PutMat4(buf, off, g.InvProj)
	common.PutMat4(buf, off, g.InvView)
	return buf
}
