package model

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the canonical WGSL definition of the ModelVertex struct.
// Matches GPUVertex layout exactly (32 bytes, tightly packed vertex attributes).
//
//go:embed assets/model_vertex.wgsl
var GPUVertexSource string

// GPUVertex is a single mesh vertex for the instanced model pipeline.
// Size: 32 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate (8 bytes)
	Normal   [3]float32 // offset 20: vertex normal (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Position[:]...)
	off = common.PutFloat32s(buf, off, g.TexCoord[:]...)
	common.PutFloat32s(buf, off, g.Normal[:]...)
	return buf
}

// GPUTextureVertexSource is the canonical WGSL definition of the TextureVertex struct.
//
//go:embed assets/texture_vertex.wgsl
var GPUTextureVertexSource string

// GPUTextureVertex is a position + UV vertex used by full-screen textured quads.
// Size: 20 bytes.
type GPUTextureVertex struct {
	Position [3]float32 // offset  0
	TexCoord [2]float32 // offset 12
}

// Size returns the size of the GPUTextureVertex struct in bytes.
func (g *GPUTextureVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTextureVertex struct into a byte buffer suitable for GPU upload.
func (g *GPUTextureVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Position[:]...)
	common.PutFloat32s(buf, off, g.TexCoord[:]...)
	return buf
}

// GPUColorVertexSource is the canonical WGSL definition of the ColorVertex struct.
//
//go:embed assets/color_vertex.wgsl
var GPUColorVertexSource string

// GPUColorVertex is a position + RGB vertex used by the pass-through pipelines.
// Size: 24 bytes.
type GPUColorVertex struct {
	Position [3]float32 // offset  0
	Color    [3]float32 // offset 12
}

// Size returns the size of the GPUColorVertex struct in bytes.
func (g *GPUColorVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUColorVertex struct into a byte buffer suitable for GPU upload.
func (g *GPUColorVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Position[:]...)
	common.PutFloat32s(buf, off, g.Color[:]...)
	return buf
}

// GPUInstanceSource is the canonical WGSL definition of the InstanceInput struct.
// The struct name prefix marks it as a per-instance vertex buffer for layout reflection.
//
//go:embed assets/instance.wgsl
var GPUInstanceSource string

// GPUInstance is the per-instance vertex data for the model pipeline, bound at vertex slot 1.
// The model matrix is supplied as its four columns (locations 5..8) followed by the
// normal matrix columns (locations 9..11).
// Size: 100 bytes.
type GPUInstance struct {
	Model  [4][4]float32 // offset  0: model matrix columns (64 bytes)
	Normal [3][3]float32 // offset 64: normal matrix columns (36 bytes)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (100)
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 100-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := 0
	for _, col := range g.Model {
		off = common.PutFloat32s(buf, off, col[:]...)
	}
	for _, col := range g.Normal {
		off = common.PutFloat32s(buf, off, col[:]...)
	}
	return buf
}

// Matrix reassembles the model matrix the way the vertex stage does.
//
// Returns:
//   - mgl32.Mat4: the model matrix
func (g *GPUInstance) Matrix() mgl32.Mat4 {
	return mgl32.Mat4FromCols(g.Model[0], g.Model[1], g.Model[2], g.Model[3])
}

// MarshalInstances packs instances back to back into one vertex buffer payload.
//
// Parameters:
//   - instances: the raw instances to pack
//
// Returns:
//   - []byte: the packed buffer
func MarshalInstances(instances []GPUInstance) []byte {
	out := make([]byte, 0, len(instances)*100)
	for i := range instances {
		out = append(out, instances[i].Marshal()...)
	}
	return out
}

// GPUMeshTransformSource is the canonical WGSL definition of the MeshTransform struct.
// Matches GPUMeshTransform layout exactly (144 bytes).
//
//go:embed assets/mesh_transform.wgsl
var GPUMeshTransformSource string

// GPUMeshTransform is the uniform carried by instanced meshes that need per-mesh transforms.
// Size: 144 bytes.
type GPUMeshTransform struct {
	Model                 mgl32.Mat4 // offset   0
	InverseTransposeModel mgl32.Mat4 // offset  64
	Flags                 [4]uint32  // offset 128
}

// NewMeshTransform builds a GPUMeshTransform from a model matrix, deriving the
// inverse-transpose used for normals.
//
// Parameters:
//   - m: the model matrix
//   - flags: per-mesh flag words
//
// Returns:
//   - GPUMeshTransform: the populated uniform
func NewMeshTransform(m mgl32.Mat4, flags [4]uint32) GPUMeshTransform {
	return GPUMeshTransform{
		Model:                 m,
		InverseTransposeModel: m.Inv().Transpose(),
		Flags:                 flags,
	}
}

// Size returns the size of the GPUMeshTransform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (144)
func (g *GPUMeshTransform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshTransform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *GPUMeshTransform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutMat4(buf, 0, g.Model)
	off = common.PutMat4(buf, off, g.InverseTransposeModel)
	for i, f := range g.Flags {
		binary.LittleEndian.PutUint32(buf[off+i*4:], f)
	}
	return buf
}
