package engine

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/engine/window"
)

// maxFramePanics is the number of consecutive panicking frames after which the engine quits.
const maxFramePanics = 3

type engine struct {
	window window.Window

	scenesMu sync.RWMutex
	scenes   map[int]scene.Scene

	// tickEvery is the tick period in nanoseconds. The tick loop picks up changes after
	// its next tick.
	tickEvery  atomic.Int64
	frameEvery time.Duration
	onTick     atomic.Pointer[func(deltaTime float32)]

	// profiler is nil unless profiling is on.
	profiler *profiler.Profiler

	done     chan struct{}
	stopOnce sync.Once
	loops    sync.WaitGroup

	// dragging is true while the left mouse button is held. Only window callbacks touch it.
	dragging bool
}

// Engine drives the scenes: a fixed-rate tick loop updates them and a render loop draws
// them, while the calling goroutine pumps window events.
type Engine interface {
	// Window returns the attached window, or nil.
	Window() window.Window

	// SetTickRate changes how often the scenes update. Values <= 0 use 60 Hz.
	//
	// Parameters:
	//   - fps: ticks per second
	SetTickRate(fps float64)

	// SetTickCallback registers a function called on every tick after the scenes update.
	// It may be called while the tick loop runs. A nil callback removes the current one.
	//
	// Parameters:
	//   - callback: receives the seconds since the previous tick
	SetTickCallback(callback func(deltaTime float32))

	// AddScene registers s at z-index key, replacing any scene already there.
	//
	// Parameters:
	//   - key: the z-index; lower keys compute and draw first
	//   - s: the scene
	AddScene(key int, s scene.Scene)

	// RemoveScene unregisters the scene at key.
	RemoveScene(key int)

	// Scene returns the scene at key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a snapshot of the registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// Run starts the loops and blocks until the window closes or Quit is called. Without a
	// window it blocks until Quit.
	Run()

	// Quit stops the loops. Further calls do nothing.
	Quit()
}

// NewEngine creates an engine and routes the window's input and resize events, if a
// window is attached, to the active scenes.
//
// Parameters:
//   - options: window, scenes, rates and profiling
//
// Returns:
//   - Engine: the engine, not yet running
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		scenes: make(map[int]scene.Scene),
		done:   make(chan struct{}),
	}
	e.tickEvery.Store(int64(frameInterval(defaultTickRate, 0)))

	for _, opt := range options {
		opt(e)
	}

	if w := e.window; w != nil {
		w.SetResizeCallback(e.resize)
		w.SetKeyDownCallback(func(code int) { e.key(code, true) })
		w.SetKeyUpCallback(func(code int) { e.key(code, false) })
		w.SetLeftMouseDownCallback(e.leftMouseDown)
		w.SetLeftMouseUpCallback(e.leftMouseUp)
		w.SetMouseMoveCallback(e.mouseMove)
		w.SetScrollCallback(e.scroll)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.loops.Add(2)
	go e.tickLoop()
	go e.renderLoop()

	if e.window == nil {
		<-e.done
		e.loops.Wait()
		return
	}

	// GLFW must be torn down on the thread pumping its events, once rendering has stopped
	e.window.SetUpdateCallback(func() {
		if !e.stopped() {
			return
		}
		e.loops.Wait()
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("window close failed", "error", err)
		}
	})
	e.window.ProcessMessages()

	e.stop()
	e.loops.Wait()
}

func (e *engine) Quit() {
	e.stop()
}

func (e *engine) stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		common.Logger().Info("engine stopping")
	})
}

func (e *engine) stopped() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func (e *engine) tickLoop() {
	defer e.loops.Done()

	every := time.Duration(e.tickEvery.Load())
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-e.done:
			return
		case now := <-ticker.C:
			e.tick(float32(now.Sub(last).Seconds()))
			last = now

			if next := time.Duration(e.tickEvery.Load()); next != every {
				every = next
				ticker.Reset(every)
			}
		}
	}
}

// tick updates every active scene, then calls the tick callback.
func (e *engine) tick(dt float32) {
	for _, s := range e.activeScenes() {
		s.Update(dt)
	}
	if onTick := e.onTick.Load(); onTick != nil {
		(*onTick)(dt)
	}
}

// renderLoop renders frames back to back, or no faster than frameEvery when a limit is
// set. A panicking frame is logged and skipped; maxFramePanics in a row stop the engine.
func (e *engine) renderLoop() {
	defer e.loops.Done()

	panics := 0
	for !e.stopped() {
		start := time.Now()

		if e.renderFrame() {
			panics = 0
		} else if panics++; panics >= maxFramePanics {
			common.Logger().Error("render loop giving up", "consecutive_panics", panics)
			e.stop()
			return
		}
		if e.profiler != nil {
			e.profiler.Tick()
		}

		if wait := e.frameEvery - time.Since(start); wait > 0 {
			select {
			case <-e.done:
			case <-time.After(wait):
			}
		}
	}
}

// renderFrame runs one frame over the active scenes in ascending z-index order: all compute
// work in one submission, all draws in one render pass, the present, then each scene's
// post-present work. The first active scene's renderer drives the frame.
//
// Returns:
//   - bool: false if the frame panicked
func (e *engine) renderFrame() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Warn("render frame recovered from panic", "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	active := e.activeScenes()
	if len(active) == 0 {
		return true
	}
	r := active[0].Renderer()
	if r == nil {
		return true
	}
	logger := common.Logger()

	if err := r.BeginComputeFrame(); err != nil {
		logger.Warn("failed to begin compute frame", "error", err)
	} else {
		for _, s := range active {
			if err := s.Compute(); err != nil {
				logger.Warn("compute failed", "scene", s.Name(), "error", err)
			}
		}
		r.EndComputeFrame()
	}

	if err := r.BeginFrame(); err != nil {
		// the surface can be briefly unavailable while resizing
		logger.Debug("skipping frame", "error", err)
		return true
	}
	for _, s := range active {
		if err := s.Draw(); err != nil {
			logger.Warn("draw failed", "scene", s.Name(), "error", err)
		}
	}
	r.EndFrame()
	r.Present()

	for _, s := range active {
		if err := s.AfterPresent(); err != nil {
			logger.Warn("after present failed", "scene", s.Name(), "error", err)
		}
	}
	return true
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()

	keys := make([]int, 0, len(e.scenes))
	for k, s := range e.scenes {
		if s.Active() {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)

	active := make([]scene.Scene, len(keys))
	for i, k := range keys {
		active[i] = e.scenes[k]
	}
	return active
}

// resize reconfigures each distinct renderer once, then resizes every scene.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	seen := make(map[renderer.Renderer]bool)
	for _, s := range e.Scenes() {
		if r := s.Renderer(); r != nil && !seen[r] {
			seen[r] = true
			r.Resize(width, height)
		}
		s.Resize(width, height)
	}
}

func (e *engine) key(code int, down bool) {
	for _, s := range e.activeScenes() {
		s.Key(code, down)
	}
}

// leftMouseDown clicks at the cursor and starts a drag.
func (e *engine) leftMouseDown(x, y float32) {
	e.dragging = true
	for _, s := range e.activeScenes() {
		s.Click(x, y)
	}
}

func (e *engine) leftMouseUp(float32, float32) {
	e.dragging = false
}

func (e *engine) mouseMove(_, _, dx, dy float32) {
	if !e.dragging || (dx == 0 && dy == 0) {
		return
	}
	for _, s := range e.activeScenes() {
		s.Drag(dx, dy)
	}
}

func (e *engine) scroll(delta float32) {
	for _, s := range e.activeScenes() {
		s.Scroll(delta)
	}
}

func (e *engine) SetTickRate(fps float64) {
	e.tickEvery.Store(int64(frameInterval(fps, defaultTickRate)))
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	if callback == nil {
		e.onTick.Store(nil)
		return
	}
	e.onTick.Store(&callback)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()

	snapshot := make(map[int]scene.Scene, len(e.scenes))
	for k, s := range e.scenes {
		snapshot[k] = s
	}
	return snapshot
}
