package window

import "testing"

func TestCursorTrackerDeltas(t *testing.T) {
	var c cursorTracker

	steps := []struct {
		x, y   float32
		dx, dy float32
	}{
		{100, 100, 0, 0},
		{110, 95, 10, -5},
		{110, 95, 0, 0},
		{90, 120, -20, 25},
	}
	for i, s := range steps {
		dx, dy := c.move(s.x, s.y)
		if dx != s.dx || dy != s.dy {
			t.Errorf("step %d: delta = (%v, %v), want (%v, %v)", i, dx, dy, s.dx, s.dy)
		}
	}

	c.reset()
	if dx, dy := c.move(0, 0); dx != 0 || dy != 0 {
		t.Errorf("first move after reset = (%v, %v), want zero", dx, dy)
	}
}

func TestToPixels(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		winW, winH   int
		fbW, fbH     int
		wantX, wantY float32
	}{
		{"same scale", 10, 20, 800, 600, 800, 600, 10, 20},
		{"retina", 10, 20, 800, 600, 1600, 1200, 20, 40},
		{"minimized", 10, 20, 0, 0, 0, 0, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := toPixels(tt.x, tt.y, tt.winW, tt.winH, tt.fbW, tt.fbH)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("toPixels = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
