// pre_processor.go rewrites //@oxy: annotations in WGSL source into plain WGSL and
// collects the binding declarations the scene uses to match bind groups with providers.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/interact"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/storage"
)

// registryEntry pairs an embedded WGSL struct definition with its type name.
type registryEntry struct {
	// Source is the WGSL struct definition injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted by @oxy:group.
	Type string
}

// structRegistry maps every struct key to the WGSL mirror of its Go GPU type.
var structRegistry = map[AnnotationArg]registryEntry{
	AnnotationArgCamera:            {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
	AnnotationArgLight:             {Source: light.GPULightSource, Type: "Light"},
	AnnotationArgControls:          {Source: interact.GPUControlsSource, Type: "Controls"},
	AnnotationArgInteractiveVertex: {Source: interact.GPUVertexSource, Type: "InteractiveVertex"},
	AnnotationArgStorageRecord:     {Source: storage.GPUStorageRecordSource, Type: "StorageRecord"},
	AnnotationArgModelVertex:       {Source: model.GPUVertexSource, Type: "ModelVertex"},
	AnnotationArgTextureVertex:     {Source: model.GPUTextureVertexSource, Type: "TextureVertex"},
	AnnotationArgColorVertex:       {Source: model.GPUColorVertexSource, Type: "ColorVertex"},
	AnnotationArgInstance:          {Source: model.GPUInstanceSource, Type: "InstanceInput"},
	AnnotationArgMeshTransform:     {Source: model.GPUMeshTransformSource, Type: "MeshTransform"},
}

var addressSpaceRegistry = map[AnnotationArg]string{
	annotationArgStorageTypeUniform:   "var<uniform>",
	annotationArgStorageTypeRead:      "var<storage, read>",
	annotationArgStorageTypeReadWrite: "var<storage, read_write>",
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// declarations holds the group and provider annotations of the last Process call.
	declarations []Annotation
}

// PreProcessor rewrites //@oxy: annotations into WGSL and records binding declarations.
type PreProcessor interface {
	// Process replaces every annotation in source. Include annotations become the struct
	// source, group annotations become @group/@binding declarations, and provider
	// annotations are dropped. The declarations list is reset first.
	//
	// Parameters:
	//   - source: WGSL source containing annotations
	//
	// Returns:
	//   - string: the processed WGSL
	//   - error: an error naming the line of the first malformed annotation
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected by the last
	// Process call in source order.
	//
	// Returns:
	//   - []Annotation: the declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor over the engine's struct registry.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			// a struct included twice would be a redeclaration
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(structRegistry[a.Args[0]].Source, "\n"))
		case AnnotationTypeBindingGroup:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, addressSpaceRegistry[a.Args[0]], a.Args[1], wgslTypeFor(string(a.Args[2]))))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// wgslTypeFor resolves a group annotation type argument to the WGSL type it declares.
func wgslTypeFor(typeArg string) string {
	key, isArray, count := splitArrayType(typeArg)
	name := structRegistry[AnnotationArg(key)].Type
	switch {
	case isArray && count != "":
		return fmt.Sprintf("array<%s, %s>", name, count)
	case isArray:
		return fmt.Sprintf("array<%s>", name)
	}
	return name
}
