package window

import (
	"errors"
	"runtime"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errClosed = errors.New("window: already closed")

// open creates the GLFW window without a client API, since WebGPU brings its own, and
// installs the input callbacks.
func (w *engineWindow) open() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return err
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return err
	}
	win.SetSizeLimits(sizeLimit(w.minSize[0]), sizeLimit(w.minSize[1]), sizeLimit(w.maxSize[0]), sizeLimit(w.maxSize[1]))
	w.handle = win

	win.SetKeyCallback(w.onKey)
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.on.scroll != nil {
			w.on.scroll(float32(yoff))
		}
	})
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetCursorPosCallback(func(*glfw.Window, float64, float64) {
		x, y := w.cursorPixels()
		dx, dy := w.cursor.move(x, y)
		if w.on.mouseMove != nil {
			w.on.mouseMove(x, y, dx, dy)
		}
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if !entered {
			w.cursor.reset()
		}
	})

	// the framebuffer size, not the window size, is what the surface is configured with;
	// they differ on high-DPI displays
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.on.resize != nil {
			w.on.resize(width, height)
		}
	})
	w.width, w.height = win.GetFramebufferSize()
	return nil
}

func (w *engineWindow) onKey(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if int(key) == common.KeyEscape {
		if action == glfw.Press {
			win.SetShouldClose(true)
		}
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		if w.on.keyDown != nil {
			w.on.keyDown(int(key))
		}
	case glfw.Release:
		if w.on.keyUp != nil {
			w.on.keyUp(int(key))
		}
	}
}

func (w *engineWindow) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	x, y := w.cursorPixels()
	switch {
	case action == glfw.Press && w.on.leftMouseDown != nil:
		w.on.leftMouseDown(x, y)
	case action == glfw.Release && w.on.leftMouseUp != nil:
		w.on.leftMouseUp(x, y)
	}
}

// cursorPixels returns the cursor position in framebuffer pixels.
func (w *engineWindow) cursorPixels() (float32, float32) {
	xpos, ypos := w.handle.GetCursorPos()
	winW, winH := w.handle.GetSize()
	fbW, fbH := w.handle.GetFramebufferSize()
	return toPixels(xpos, ypos, winW, winH, fbW, fbH)
}

func (w *engineWindow) running() bool {
	return !w.closed && w.handle != nil && !w.handle.ShouldClose()
}

func (w *engineWindow) ProcessMessages() {
	for w.running() {
		glfw.PollEvents()
		if w.on.update != nil {
			w.on.update()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.closed || w.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.handle)
}

func (w *engineWindow) Close() error {
	if w.closed || w.handle == nil {
		return errClosed
	}
	w.closed = true
	w.handle.Destroy()
	glfw.Terminate()
	return nil
}

// sizeLimit maps an unbounded (zero) size limit to glfw.DontCare.
func sizeLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}
