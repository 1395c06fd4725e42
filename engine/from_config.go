package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// FromConfig opens a window and builds an engine running the configured worker in a single
// scene. The window is created on the calling goroutine, which must also call Run.
//
// Parameters:
//   - cfg: a validated engine configuration
//
// Returns:
//   - Engine: the engine, ready to Run
//   - error: the config validation, scene construction or GPU initialization error
func FromConfig(cfg config.EngineConfig) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Title),
		window.WithSize(int(cfg.Width), int(cfg.Height)),
	)

	opts := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(presentModeFor(cfg.PresentMode)),
		renderer.WithMSAA(msaaFor(cfg.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.SoftwareAdapter),
	}
	if c, ok := clearColorFor(cfg.ClearColor); ok {
		opts = append(opts, renderer.WithClearColor(c))
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, opts...)

	s, err := scene.NewScene(cfg.Worker,
		scene.WithSize(win.Width(), win.Height()),
		scene.WithTexture(cfg.Texture),
	)
	if err != nil {
		_ = win.Close()
		return nil, err
	}
	if err := s.Init(r); err != nil {
		_ = win.Close()
		return nil, fmt.Errorf("failed to initialize %s: %w", cfg.Worker, err)
	}

	common.Logger().Info("engine configured",
		"worker", cfg.Worker,
		"width", win.Width(),
		"height", win.Height(),
		"present_mode", cfg.PresentMode,
		"msaa", cfg.MSAA,
		"software_adapter", cfg.SoftwareAdapter,
	)

	return NewEngine(
		WithWindow(win),
		WithScene(0, s),
		WithTickRate(float64(cfg.TickRate)),
		WithRenderFrameLimit(float64(cfg.FrameLimit)),
		WithProfiling(cfg.Profiling),
	), nil
}

// presentModeFor maps a present_mode config value to a renderer.PresentMode.
// Unknown names fall back to vsync.
func presentModeFor(name string) renderer.PresentMode {
	if name == config.PresentModeUncapped {
		return renderer.PresentModeUncapped
	}
	return renderer.PresentModeVSync
}

// msaaFor maps an msaa config value to a renderer.MSAASampleCount.
// Counts other than 4, 8 and 16 disable multisampling.
func msaaFor(samples int) renderer.MSAASampleCount {
	switch samples {
	case 4:
		return renderer.MSAA4x
	case 8:
		return renderer.MSAA8x
	case 16:
		return renderer.MSAA16x
	}
	return renderer.MSAAOff
}

// clearColorFor converts a clear_color config value. Alpha defaults to 1. ok is false
// for an empty value.
func clearColorFor(rgba []float64) (c wgpu.Color, ok bool) {
	if len(rgba) < 3 {
		return wgpu.Color{}, false
	}
	c = wgpu.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: 1}
	if len(rgba) == 4 {
		c.A = rgba[3]
	}
	return c, true
}
