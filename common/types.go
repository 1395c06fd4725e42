// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// RGBA returns a view of the staged pixels as an *image.RGBA sharing the same memory.
//
// Returns:
//   - *image.RGBA: the image view
func (t *TextureStagingData) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: int(t.Width) * 4,
		Rect:   image.Rect(0, 0, int(t.Width), int(t.Height)),
	}
}

// DecodeTexture decodes an encoded image into RGBA staging data.
// PNG, JPEG, GIF, BMP and WebP are supported.
//
// Parameters:
//   - r: reader over the encoded image bytes
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if decoding fails
func DecodeTexture(r io.Reader) (*TextureStagingData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	Logger().Debug("decoded texture", "format", format, "width", bounds.Dx(), "height", bounds.Dy())

	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// LoadTexture reads and decodes the image at path.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if the file cannot be read or decoded
func LoadTexture(path string) (*TextureStagingData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture file %s: %w", path, err)
	}
	tex, err := DecodeTexture(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	return tex, nil
}

// CheckerTexture builds a two-color checkerboard, used as the diffuse map when no texture file is configured.
//
// Parameters:
//   - size: width and height in pixels
//   - cell: edge length of one checker cell in pixels
//   - a, b: the two cell colors
//
// Returns:
//   - *TextureStagingData: the generated pixels
func CheckerTexture(size, cell int, a, b color.RGBA) *TextureStagingData {
	if cell <= 0 {
		cell = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if ((x/cell)+(y/cell))%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return &TextureStagingData{Pixels: img.Pix, Width: uint32(size), Height: uint32(size)}
}

// ScaleTexture resamples the texture to the given size with bilinear filtering.
//
// Parameters:
//   - t: the source texture
//   - width, height: the target size in pixels
//
// Returns:
//   - *TextureStagingData: the resampled texture
func ScaleTexture(t *TextureStagingData, width, height int) *TextureStagingData {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), t.RGBA(), t.RGBA().Bounds(), draw.Src, nil)
	return &TextureStagingData{Pixels: dst.Pix, Width: uint32(width), Height: uint32(height)}
}
