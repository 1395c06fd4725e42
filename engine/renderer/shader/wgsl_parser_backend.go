package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// instanceStructPrefix marks vertex input structs that carry per-instance data.
const instanceStructPrefix = "Instance"

// alignUp rounds value up to a multiple of align, which must be a power of two.
func alignUp(align, value uint64) uint64 {
	if align == 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// arrayParams splits "array<T, N>" into T and N. N is empty for a runtime-sized array.
// ok is false when typeName is not an array.
func arrayParams(typeName string) (elem, count string, ok bool) {
	base, params := splitTypeParams(typeName)
	if base != "array" || params == "" {
		return "", "", false
	}
	elem, count, _ = strings.Cut(params, ",")
	return strings.TrimSpace(elem), strings.TrimSpace(count), true
}

// resolveTypeLayout returns the size and alignment of typeName. Structs are looked up in
// known. A runtime-sized array resolves to one element stride, the smallest buffer that
// can back it.
//
// Parameters:
//   - typeName: a WGSL type, e.g. "vec3f", "CameraUniform" or "array<Triangle, 5>"
//   - known: struct layouts resolved so far
//
// Returns:
//   - wgslTypeLayout: the layout
//   - bool: false when the type or one of its parts is unknown
func resolveTypeLayout(typeName string, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := known[typeName]; ok {
		return layout, true
	}

	elemName, countStr, isArray := arrayParams(typeName)
	if !isArray {
		return wgslTypeLayout{}, false
	}
	elem, ok := resolveTypeLayout(elemName, known)
	if !ok {
		return wgslTypeLayout{}, false
	}
	stride := alignUp(elem.align, elem.size)
	if countStr == "" {
		return wgslTypeLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(countStr, 10, 64)
	if err != nil {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{count * stride, elem.align}, true
}

// computeStructLayout lays out the non-builtin fields of ps at their aligned offsets and
// rounds the total up to the largest field alignment. A trailing runtime-sized array
// contributes nothing beyond the fixed prefix, unless it is the only member, in which
// case the struct takes one element stride.
func computeStructLayout(ps parsedStruct, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	var offset uint64
	align := uint64(1)

	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		if _, count, isArray := arrayParams(f.typeName); isArray && count == "" {
			if offset > 0 {
				return wgslTypeLayout{alignUp(align, offset), align}, true
			}
			return resolveTypeLayout(f.typeName, known)
		}

		layout, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = alignUp(layout.align, offset) + layout.size
		align = max(align, layout.align)
	}
	return wgslTypeLayout{alignUp(align, offset), align}, true
}

// computeStructSizes resolves the layout of every struct. Structs that reference other
// structs are retried until a pass makes no progress; unresolvable ones are left out.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	pending := append([]parsedStruct(nil), structs...)

	for len(pending) > 0 {
		var next []parsedStruct
		for _, ps := range pending {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return resolved
}

// classifyResource builds the bind group layout entry for one resource declaration.
// Declarations with an address space are buffers; handle types are samplers or sampled
// textures. Any other handle type yields an entry with no binding type set.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stage flag
//   - addressSpace: the var<...> qualifier, e.g. "uniform" or "storage, read_write", or ""
//   - typeName: the declared type, e.g. "CameraUniform", "texture_2d<f32>" or "sampler"
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the populated entry
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case addressSpace != "":
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	default:
		base, param := splitTypeParams(typeName)
		if info, ok := wgslSampledTextureMap[base]; ok {
			entry.Texture.ViewDimension = info.viewDimension
			entry.Texture.Multisampled = info.multisampled
			entry.Texture.SampleType = wgslSampleTypeMap[param]
		}
	}
	return entry
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32"). A type without
// parameters returns itself and "".
func splitTypeParams(typeName string) (base, params string) {
	base, params, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return strings.TrimSpace(base), strings.TrimSpace(strings.TrimSuffix(params, ">"))
}

// stripComments removes // line comments and nested /* */ block comments in one pass.
// Newlines are kept so line structure survives.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		var next byte
		if i+1 < len(source) {
			next = source[i+1]
		}

		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case c == '*' && next == '/' && depth > 0:
			depth--
			i++
		case depth > 0:
		case c == '/' && next == '/':
			for i+1 < len(source) && source[i+1] != '\n' {
				i++
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether ps has at least one @location field and no
// @builtin field. Vertex outputs carry @builtin(position) and are excluded.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		hasLocation = hasLocation || f.location >= 0
	}
	return hasLocation
}

// buildVertexBufferLayout packs the fields of a vertex input struct tightly in
// declaration order. Structs named Instance* step per instance. It reports false when
// a field type has no vertex format.
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	layout := wgpu.VertexBufferLayout{
		StepMode:   wgpu.VertexStepModeVertex,
		Attributes: make([]wgpu.VertexAttribute, 0, len(ps.fields)),
	}
	if strings.HasPrefix(ps.name, instanceStructPrefix) {
		layout.StepMode = wgpu.VertexStepModeInstance
	}

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(f.location),
		})
		layout.ArrayStride += info.size
	}
	return layout, true
}

// splitAtTopLevelCommas splits a struct body at commas outside angle brackets, so
// "a: array<T, 6>, b: f32" yields two members.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
