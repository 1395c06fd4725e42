// Package shaders embeds the engine's WGSL programs. Each source still carries its
// //@oxy: annotations and is expanded by shader.NewShaderFromSource.
package shaders

import (
	_ "embed"
	"sort"
)

//go:embed assets/interactive.wgsl
var Interactive string

//go:embed assets/model.wgsl
var Model string

//go:embed assets/storage_kernel.wgsl
var StorageKernel string

//go:embed assets/simple.wgsl
var Simple string

//go:embed assets/texture.wgsl
var Texture string

// Asset is a named embedded WGSL program.
type Asset struct {
	Name   string
	Source string
}

// All returns every embedded program sorted by name.
//
// Returns:
//   - []Asset: the programs
func All() []Asset {
	assets := []Asset{
		{Name: "interactive", Source: Interactive},
		{Name: "model", Source: Model},
		{Name: "simple", Source: Simple},
		{Name: "storage_kernel", Source: StorageKernel},
		{Name: "texture", Source: Texture},
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets
}
