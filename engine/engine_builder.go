package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/engine/window"
)

// defaultTickRate is the tick rate in Hz used when none is configured.
const defaultTickRate = 60.0

// EngineBuilderOption configures an engine during NewEngine.
type EngineBuilderOption func(*engine)

// frameInterval converts a rate in Hz to the duration of one frame. A non-positive fps
// uses fallback instead, and a non-positive fallback yields 0.
func frameInterval(fps, fallback float64) time.Duration {
	if fps <= 0 {
		fps = fallback
	}
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// WithProfiling turns the once-per-second frame and memory report on or off.
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		if !enabled {
			e.profiler = nil
			return
		}
		e.profiler = profiler.NewProfiler()
	}
}

// WithTickRate sets how often the scenes update, in Hz. Values <= 0 use 60.
//
// Parameters:
//   - fps: ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickEvery.Store(int64(frameInterval(fps, defaultTickRate)))
	}
}

// WithRenderFrameLimit caps the render loop at fps frames per second. Values <= 0 leave
// it uncapped.
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameEvery = frameInterval(fps, 0)
	}
}

// WithWindow attaches the window the engine drives. Without one, Run only ticks the
// scenes until Quit.
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene registers s at z-index key. Lower keys compute and draw first. A nil scene
// is ignored.
//
// Parameters:
//   - key: the z-index
//   - s: the scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		if s == nil {
			return
		}
		e.scenes[key] = s
	}
}
