package interact

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// GPUVertexSource is the canonical WGSL definition of the InteractiveVertex input struct.
// Matches GPUVertex layout exactly (48 bytes, tightly packed vertex attributes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single interactive vertex.
// Only Controls[0] carries flags; the remaining control components are reserved.
// Size: 48 bytes.
type GPUVertex struct {
	Controls [4]uint32  // offset  0: control word, bit 0 click, bit 1 pre-transformed (16 bytes)
	Position [3]float32 // offset 16: pixel-space or clip-space position (12 bytes)
	Color    [3]float32 // offset 28: RGB color (12 bytes)
	TexCoord [2]float32 // offset 40: UV coordinate (8 bytes)
}

// GPUVertexSize is the packed size of a GPUVertex in bytes.
const GPUVertexSize = 48

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex into a 48-byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPUVertex into the first 48 bytes of buf.
//
// Parameters:
//   - buf: destination buffer, at least 48 bytes long
func (g *GPUVertex) MarshalTo(buf []byte) {
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], g.Controls[i])
	}
	off := common.PutFloat32s(buf, 16, g.Position[:]...)
	off = common.PutFloat32s(buf, off, g.Color[:]...)
	common.PutFloat32s(buf, off, g.TexCoord[:]...)
}

// GPUControlsSource is the canonical WGSL definition of the Controls uniform struct.
//
//go:embed assets/controls.wgsl
var GPUControlsSource string

// GPUControls is the GPU-aligned representation of the Controls uniform.
// Size holds (width, height, 0, 0) of the current surface.
// Size: 16 bytes.
type GPUControls struct {
	Size [4]float32 // offset 0: viewport size (vec4<f32>)
}

// NewGPUControls builds the Controls uniform for a surface of the given size.
//
// Parameters:
//   - width, height: the surface size in pixels
//
// Returns:
//   - GPUControls: the uniform value
func NewGPUControls(width, height int) GPUControls {
	return GPUControls{Size: [4]float32{float32(width), float32(height), 0, 0}}
}

// Marshal serializes the GPUControls struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer (16 bytes)
func (g *GPUControls) Marshal() []byte {
	buf := make([]byte, 16)
	common.PutFloat32s(buf, 0, g.Size[:]...)
	return buf
}
