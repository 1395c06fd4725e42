package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window the renderer presents to. Positions passed to the mouse
// callbacks are in framebuffer pixels, the space the scenes and the renderer share.
type Window interface {
	// SetUpdateCallback sets a function run once per ProcessMessages iteration, on the
	// thread that owns the window.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function receiving the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function receiving vertical scroll steps. Positive is up.
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function receiving GLFW key codes on press and repeat.
	// Escape is not forwarded; it closes the window.
	SetKeyDownCallback(callback func(keyCode int))

	// SetKeyUpCallback sets the function receiving GLFW key codes on release.
	SetKeyUpCallback(callback func(keyCode int))

	SetLeftMouseDownCallback(callback func(x, y float32))
	SetLeftMouseUpCallback(callback func(x, y float32))

	// SetMouseMoveCallback sets the function receiving the cursor position and its delta
	// since the previous move. The first move after the cursor enters reports a zero delta.
	SetMouseMoveCallback(callback func(x, y, dx, dy float32))

	// SurfaceDescriptor returns the platform surface descriptor for the window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close destroys the window and terminates GLFW. It must run on the thread that
	// created the window.
	//
	// Returns:
	//   - error: if the window was already closed
	Close() error

	// ProcessMessages polls events until the window is closed.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// callbacks holds the event handlers. Nil handlers are skipped.
type callbacks struct {
	update        func()
	resize        func(width, height int)
	scroll        func(delta float32)
	keyDown       func(keyCode int)
	keyUp         func(keyCode int)
	leftMouseDown func(x, y float32)
	leftMouseUp   func(x, y float32)
	mouseMove     func(x, y, dx, dy float32)
}

type engineWindow struct {
	title string

	// width and height are the framebuffer size once the window is open.
	width, height int

	// minSize and maxSize bound interactive resizing. A zero dimension is unbounded.
	minSize [2]int
	maxSize [2]int

	handle *glfw.Window
	closed bool

	on     callbacks
	cursor cursorTracker
}

var _ Window = &engineWindow{}

// NewWindow opens a window. The calling goroutine is locked to its OS thread and must
// be the one that later calls ProcessMessages and Close.
//
// Parameters:
//   - options: title and size options
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:   "oxy-shade",
		width:   1280,
		height:  720,
		minSize: [2]int{320, 200},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := w.open(); err != nil {
		panic(fmt.Errorf("open window: %w", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func())                        { w.on.update = callback }
func (w *engineWindow) SetResizeCallback(callback func(width, height int))       { w.on.resize = callback }
func (w *engineWindow) SetScrollCallback(callback func(delta float32))           { w.on.scroll = callback }
func (w *engineWindow) SetKeyDownCallback(callback func(keyCode int))            { w.on.keyDown = callback }
func (w *engineWindow) SetKeyUpCallback(callback func(keyCode int))              { w.on.keyUp = callback }
func (w *engineWindow) SetLeftMouseDownCallback(callback func(x, y float32))     { w.on.leftMouseDown = callback }
func (w *engineWindow) SetLeftMouseUpCallback(callback func(x, y float32))       { w.on.leftMouseUp = callback }
func (w *engineWindow) SetMouseMoveCallback(callback func(x, y, dx, dy float32)) { w.on.mouseMove = callback }

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
