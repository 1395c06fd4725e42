package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

// materialGroup returns the @group of the material provider annotations in s, or -1.
func materialGroup(s shader.Shader) int {
	for _, decl := range s.Declarations() {
		if decl.Type == shader.AnnotationTypeProvider && decl.Provider() == shader.AnnotationArgMaterial && decl.Group != nil {
			return *decl.Group
		}
	}
	return -1
}

// initMaterial uploads every texture and sampler s declares for the material provider and
// creates the material's bind group against the pipeline layout.
//
// Parameters:
//   - r: the renderer
//   - pipelineKey: the registered pipeline the material is drawn with
//   - s: the shader carrying the material annotations
//   - mat: the material to upload
//
// Returns:
//   - int: the material's @group index
//   - error: an error if the shader declares no material or an upload fails
func initMaterial(r renderer.Renderer, pipelineKey string, s shader.Shader, mat material.Material) (int, error) {
	group := materialGroup(s)
	if group < 0 {
		return -1, fmt.Errorf("%s declares no material bindings", s.Key())
	}

	provider := mat.BindGroupProvider()
	for _, decl := range s.Declarations() {
		if decl.Type != shader.AnnotationTypeProvider || decl.Provider() != shader.AnnotationArgMaterial {
			continue
		}
		role := string(decl.Role())
		switch decl.Role() {
		case shader.AnnotationArgDiffuseTexture, shader.AnnotationArgNormalTexture:
			tex, err := mat.Texture(role)
			if err != nil {
				return -1, err
			}
			if err := r.InitTextureView(provider, *decl.Binding, *tex); err != nil {
				return -1, fmt.Errorf("material %s %s: %w", mat.Name(), role, err)
			}
		case shader.AnnotationArgDiffuseSampler, shader.AnnotationArgNormalSampler:
			samp, err := mat.Sampler(role)
			if err != nil {
				return -1, err
			}
			if err := r.InitSampler(provider, *decl.Binding, samp); err != nil {
				return -1, fmt.Errorf("material %s %s: %w", mat.Name(), role, err)
			}
		}
	}

	mat.SetPipelineKey(pipelineKey)
	return group, initGroup(r, pipelineKey, group, provider, nil, nil)
}

// loadMaterial decodes the texture at path into a material, or builds the checkerboard
// material when path is empty.
func loadMaterial(name, path string) (material.Material, error) {
	if path == "" {
		return material.NewMaterial(material.WithName(name)), nil
	}
	return material.NewMaterialFromFile(path, material.WithName(name))
}
