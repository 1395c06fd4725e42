package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormatInfo is the wgpu vertex format of a WGSL type and its packed size.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo is the view dimension of a sampled texture type.
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout is the host-shareable size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a parsed WGSL struct. location is -1 without @location.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// scalarSuffixes pairs each 32-bit scalar with its vecN shorthand suffix.
var scalarSuffixes = []struct {
	scalar string
	suffix string
}{
	{"f32", "f"},
	{"i32", "i"},
	{"u32", "u"},
}

// vectorNames returns the long and shorthand spellings of vecN<scalar>.
func vectorNames(n int, scalar, suffix string) []string {
	return []string{fmt.Sprintf("vec%d<%s>", n, scalar), fmt.Sprintf("vec%d%s", n, suffix)}
}

// wgslPrimitiveLayoutMap maps the 32-bit scalar, vector, f32 matrix and atomic types to
// their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = buildPrimitiveLayouts()

func buildPrimitiveLayouts() map[string]wgslTypeLayout {
	m := map[string]wgslTypeLayout{
		"bool":        {4, 4},
		"atomic<u32>": {4, 4},
		"atomic<i32>": {4, 4},
	}
	// vec3 is 12 bytes but aligned like vec4
	vecLayouts := map[int]wgslTypeLayout{2: {8, 8}, 3: {12, 16}, 4: {16, 16}}

	for _, s := range scalarSuffixes {
		m[s.scalar] = wgslTypeLayout{4, 4}
		for n, layout := range vecLayouts {
			for _, name := range vectorNames(n, s.scalar, s.suffix) {
				m[name] = layout
			}
		}
	}

	// matCxR is C columns of vecR, each padded to the column alignment
	for c := 2; c <= 4; c++ {
		for r := 2; r <= 4; r++ {
			col := vecLayouts[r]
			m[fmt.Sprintf("mat%dx%d<f32>", c, r)] = wgslTypeLayout{size: uint64(c) * col.align, align: col.align}
			m[fmt.Sprintf("mat%dx%df", c, r)] = wgslTypeLayout{size: uint64(c) * col.align, align: col.align}
		}
	}
	return m
}

// wgslVertexFormatMap maps vertex attribute types to their wgpu vertex formats.
var wgslVertexFormatMap = buildVertexFormats()

func buildVertexFormats() map[string]vertexFormatInfo {
	formats := map[string][4]wgpu.VertexFormat{
		"f32": {wgpu.VertexFormatFloat32, wgpu.VertexFormatFloat32x2, wgpu.VertexFormatFloat32x3, wgpu.VertexFormatFloat32x4},
		"i32": {wgpu.VertexFormatSint32, wgpu.VertexFormatSint32x2, wgpu.VertexFormatSint32x3, wgpu.VertexFormatSint32x4},
		"u32": {wgpu.VertexFormatUint32, wgpu.VertexFormatUint32x2, wgpu.VertexFormatUint32x3, wgpu.VertexFormatUint32x4},
	}

	m := make(map[string]vertexFormatInfo)
	for _, s := range scalarSuffixes {
		f := formats[s.scalar]
		m[s.scalar] = vertexFormatInfo{f[0], 4}
		for n := 2; n <= 4; n++ {
			for _, name := range vectorNames(n, s.scalar, s.suffix) {
				m[name] = vertexFormatInfo{f[n-1], uint64(4 * n)}
			}
		}
	}
	return m
}

// wgslSampledTextureMap maps sampled texture base names to their view dimensions.
var wgslSampledTextureMap = map[string]sampledTextureInfo{
	"texture_2d":              {wgpu.TextureViewDimension2D, false},
	"texture_2d_array":        {wgpu.TextureViewDimension2DArray, false},
	"texture_cube":            {wgpu.TextureViewDimensionCube, false},
	"texture_multisampled_2d": {wgpu.TextureViewDimension2D, true},
}

// wgslSampleTypeMap maps a texture's scalar parameter to its sample type.
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}
