package material

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding roles a shader can declare for material bindings. They match the
// role argument of an @oxy:provider annotation.
const (
	RoleDiffuseTexture = "diffuse_texture"
	RoleDiffuseSampler = "diffuse_sampler"
	RoleNormalTexture  = "normal_texture"
	RoleNormalSampler  = "normal_sampler"
)

// DefaultSampler is the diffuse sampler used when none is configured: clamp to edge,
// linear magnification, nearest minification.
var DefaultSampler = common.SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeNearest,
	MipmapFilter: wgpu.MipmapFilterModeNearest,
}

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name              string
	diffuseTexture    *common.TextureStagingData
	diffuseSampler    common.SamplerStagingData
	normalTexture     *common.TextureStagingData
	normalSampler     common.SamplerStagingData
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a textured surface: a diffuse texture and sampler
// plus an optional normal map and sampler, together with the GPU resources they are
// uploaded into.
//
// Texture data is read-only through this interface. GPU resource references
// (pipeline key, bind group provider) are mutable so they can be configured after
// construction when the owning worker initializes its pipelines.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseTexture retrieves the diffuse texture pixels.
	//
	// Returns:
	//   - *common.TextureStagingData: the diffuse texture
	DiffuseTexture() *common.TextureStagingData

	// NormalTexture retrieves the normal map pixels, or nil if the material has none.
	//
	// Returns:
	//   - *common.TextureStagingData: the normal map, or nil
	NormalTexture() *common.TextureStagingData

	// HasNormalMap reports whether a normal map is configured.
	HasNormalMap() bool

	// Texture resolves the texture bound under a shader binding role.
	//
	// Parameters:
	//   - role: RoleDiffuseTexture or RoleNormalTexture
	//
	// Returns:
	//   - *common.TextureStagingData: the texture for the role
	//   - error: an error if the role is not a texture role or the texture is missing
	Texture(role string) (*common.TextureStagingData, error)

	// Sampler resolves the sampler configuration bound under a shader binding role.
	//
	// Parameters:
	//   - role: RoleDiffuseSampler or RoleNormalSampler
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	//   - error: an error if the role is not a sampler role
	Sampler(role string) (common.SamplerStagingData, error)

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Without a diffuse texture the material uses a 64×64 grey checkerboard.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:             &sync.Mutex{},
		name:           "material",
		diffuseSampler: DefaultSampler,
		normalSampler:  DefaultSampler,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.diffuseTexture == nil {
		m.diffuseTexture = common.CheckerTexture(64, 8,
			color.RGBA{R: 200, G: 200, B: 200, A: 255},
			color.RGBA{R: 60, G: 60, B: 60, A: 255},
		)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name)
	}
	return m
}

// NewMaterialFromFile creates a Material whose diffuse texture is decoded from an image file.
//
// Parameters:
//   - path: the image path (png, jpeg, gif, bmp or webp)
//   - options: additional MaterialBuilderOption functions
//
// Returns:
//   - Material: the new material
//   - error: an error if the image cannot be loaded
func NewMaterialFromFile(path string, options ...MaterialBuilderOption) (Material, error) {
	tex, err := common.LoadTexture(path)
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}
	return NewMaterial(append([]MaterialBuilderOption{WithDiffuseTexture(tex)}, options...)...), nil
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseTexture() *common.TextureStagingData {
	return m.diffuseTexture
}

func (m *material) NormalTexture() *common.TextureStagingData {
	return m.normalTexture
}

func (m *material) HasNormalMap() bool {
	return m.normalTexture != nil
}

func (m *material) Texture(role string) (*common.TextureStagingData, error) {
	switch role {
	case RoleDiffuseTexture:
		return m.diffuseTexture, nil
	case RoleNormalTexture:
		if m.normalTexture == nil {
			return nil, fmt.Errorf("material %q has no normal map", m.name)
		}
		return m.normalTexture, nil
	default:
		return nil, fmt.Errorf("material %q: %q is not a texture role", m.name, role)
	}
}

func (m *material) Sampler(role string) (common.SamplerStagingData, error) {
	switch role {
	case RoleDiffuseSampler:
		return m.diffuseSampler, nil
	case RoleNormalSampler:
		return m.normalSampler, nil
	default:
		return common.SamplerStagingData{}, fmt.Errorf("material %q: %q is not a sampler role", m.name, role)
	}
}

func (m *material) PipelineKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bindGroupProvider
}

func (m *material) SetPipelineKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineKey = key
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindGroupProvider = provider
}
