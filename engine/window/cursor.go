package window

// cursorTracker remembers the last cursor position so move events can carry a delta.
type cursorTracker struct {
	x, y  float32
	known bool
}

// move records a new cursor position and returns the offset from the previous one.
// The first position after a reset yields a zero delta.
func (c *cursorTracker) move(x, y float32) (dx, dy float32) {
	if c.known {
		dx, dy = x-c.x, y-c.y
	}
	c.x, c.y, c.known = x, y, true
	return dx, dy
}

// reset forgets the last position, e.g. when the cursor leaves the window.
func (c *cursorTracker) reset() {
	c.known = false
}

// toPixels scales a position in screen coordinates to framebuffer pixels.
//
// Parameters:
//   - x, y: the position in screen coordinates
//   - winW, winH: the window size in screen coordinates
//   - fbW, fbH: the framebuffer size in pixels
//
// Returns:
//   - float32, float32: the position in framebuffer pixels
func toPixels(x, y float64, winW, winH, fbW, fbH int) (float32, float32) {
	if winW <= 0 || winH <= 0 {
		return float32(x), float32(y)
	}
	return float32(x * float64(fbW) / float64(winW)), float32(y * float64(fbH) / float64(winH))
}
