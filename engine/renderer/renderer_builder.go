package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBuilderOption configures a renderer during NewRenderer.
type RendererBuilderOption func(*rendererOptions)

// WithPresentMode sets how frames are delivered to the display. Default: PresentModeVSync.
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(o *rendererOptions) { o.presentMode = mode }
}

// WithMSAA sets the sample count of the main render pass. Default: MSAA4x. Counts above 4
// depend on the adapter.
//
// Parameters:
//   - count: MSAAOff, MSAA4x, MSAA8x or MSAA16x
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(o *rendererOptions) { o.msaa = count }
}

// WithClearColor sets the main pass clear color. Default: DefaultClearColor.
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(o *rendererOptions) { o.clearColor = color }
}

// WithForceSoftwareRenderer requests the fallback adapter instead of a hardware GPU.
// The system needs a software Vulkan driver such as lavapipe or SwiftShader.
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(o *rendererOptions) { o.fallbackAdapter = force }
}
