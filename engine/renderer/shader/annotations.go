// annotations.go defines the //@oxy: comment annotations understood by the WGSL
// pre-processor. An annotation either injects a registered struct definition, declares
// a generated @group/@binding variable, or tags a hand-written binding with the
// resource provider that owns it.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL line comment.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude replaces the annotation line with the WGSL source of a
	// registered struct.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include interactive_vertex
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup replaces the annotation line with a generated
	// @group/@binding variable declaration and records it in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// The type is a struct key, array<key> for a runtime-sized array, or array<key,N>
	// for a fixed-size array.
	//
	// Examples:
	//   //@oxy:group 0 0 storage_uniform controls controls
	//   //@oxy:group 0 0 storage_read_write records array<storage_record,10>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider tags the hand-written binding below it with the provider
	// that owns it, optionally qualified by a binding role. It emits no WGSL.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 2 0 material diffuse_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is one parsed //@oxy: line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments:
	//   - include:  [0] = struct key
	//   - group:    [0] = address space, [1] = var name, [2] = type
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based source line of the annotation.
	Line int

	// Group is the @group index for group and provider annotations, nil for include.
	Group *int

	// Binding is the @binding index for group and provider annotations, nil for include.
	Binding *int
}

// Provider returns the provider identity for a provider annotation, or the struct key
// for a group annotation. Scenes use it to pick the BindGroupProvider for a group.
//
// Returns:
//   - AnnotationArg: the identity, or an empty string for include annotations
func (a Annotation) Provider() AnnotationArg {
	switch a.Type {
	case AnnotationTypeProvider:
		return a.Args[0]
	case AnnotationTypeBindingGroup:
		key, _, _ := splitArrayType(string(a.Args[2]))
		return AnnotationArg(key)
	}
	return ""
}

// Role returns the binding role of a provider annotation, or an empty string.
//
// Returns:
//   - AnnotationArg: the binding role
func (a Annotation) Role() AnnotationArg {
	if a.Type == AnnotationTypeProvider && len(a.Args) > 1 {
		return a.Args[1]
	}
	return ""
}

// AnnotationArg is a typed argument of an annotation.
type AnnotationArg string

// Struct keys. Each names a WGSL struct embedded by the package that owns its Go mirror.
const (
	// AnnotationArgCamera is CameraUniform from engine/camera.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgLight is Light from engine/light.
	AnnotationArgLight AnnotationArg = "light"

	// AnnotationArgControls is Controls from engine/interact.
	AnnotationArgControls AnnotationArg = "controls"

	// AnnotationArgInteractiveVertex is InteractiveVertex from engine/interact.
	AnnotationArgInteractiveVertex AnnotationArg = "interactive_vertex"

	// AnnotationArgStorageRecord is StorageRecord from engine/storage.
	AnnotationArgStorageRecord AnnotationArg = "storage_record"

	// AnnotationArgModelVertex is ModelVertex from engine/model.
	AnnotationArgModelVertex AnnotationArg = "model_vertex"

	// AnnotationArgTextureVertex is TextureVertex from engine/model.
	AnnotationArgTextureVertex AnnotationArg = "texture_vertex"

	// AnnotationArgColorVertex is ColorVertex from engine/model.
	AnnotationArgColorVertex AnnotationArg = "color_vertex"

	// AnnotationArgInstance is InstanceInput from engine/model.
	AnnotationArgInstance AnnotationArg = "instance"

	// AnnotationArgMeshTransform is MeshTransform from engine/model.
	AnnotationArgMeshTransform AnnotationArg = "mesh_transform"
)

// Address spaces accepted by group annotations.
const (
	annotationArgStorageTypeUniform   AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// Provider identities accepted by provider annotations.
const (
	// AnnotationArgMaterial is the material provider: diffuse and normal textures and samplers.
	AnnotationArgMaterial AnnotationArg = "material"

	// AnnotationArgStorage is the storage kernel's record arena.
	AnnotationArgStorage AnnotationArg = "storage"

	// AnnotationArgMesh is a mesh provider carrying a MeshTransform.
	AnnotationArgMesh AnnotationArg = "mesh"
)

// Binding roles within a material group. The values match the material package's role names.
const (
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"
	AnnotationArgDiffuseSampler AnnotationArg = "diffuse_sampler"
	AnnotationArgNormalTexture  AnnotationArg = "normal_texture"
	AnnotationArgNormalSampler  AnnotationArg = "normal_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgLight,
	AnnotationArgControls,
	AnnotationArgInteractiveVertex,
	AnnotationArgStorageRecord,
	AnnotationArgModelVertex,
	AnnotationArgTextureVertex,
	AnnotationArgColorVertex,
	AnnotationArgInstance,
	AnnotationArgMeshTransform,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgLight,
	AnnotationArgControls,
	AnnotationArgMaterial,
	AnnotationArgStorage,
	AnnotationArgMesh,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgDiffuseTexture,
	AnnotationArgDiffuseSampler,
	AnnotationArgNormalTexture,
	AnnotationArgNormalSampler,
}

// splitArrayType splits a group annotation type into its struct key and array count.
// "camera" yields ("camera", false, ""), "array<light>" yields ("light", true, "") and
// "array<storage_record,10>" yields ("storage_record", true, "10").
func splitArrayType(typeArg string) (key string, isArray bool, count string) {
	inner, ok := strings.CutPrefix(typeArg, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeArg, false, ""
	}
	inner = strings.TrimSuffix(inner, ">")
	key, count, _ = strings.Cut(inner, ",")
	return strings.TrimSpace(key), true, strings.TrimSpace(count)
}

// parseAnnotation parses one WGSL source line. Lines without the annotation prefix
// return nil and no error.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil
//   - error: an error if the annotation is malformed or names an unknown argument
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	_, after, ok := strings.Cut(comment, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy:include takes exactly one struct type", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy:include", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy:group takes group, binding, address space, var name and type", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy:group", lineNum, args[3])
		}
		key, _, count := splitArrayType(args[5])
		if !slices.Contains(validStructTypes, AnnotationArg(key)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy:group", lineNum, key)
		}
		if count != "" {
			if n, err := strconv.Atoi(count); err != nil || n <= 0 {
				return nil, fmt.Errorf("line %d: invalid array count %q in @oxy:group", lineNum, count)
			}
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy:provider takes group, binding, provider identity and an optional role", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy:provider", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy:provider", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil || group < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, groupArg)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil || binding < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, bindingArg)
	}
	return group, binding, nil
}
