package window

// WindowBuilderOption configures an engineWindow before it is spawned.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial client area size in pixels. Non-positive dimensions keep the
// default, and a maximum size smaller than the new size is raised to fit it.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
		if w.maxSize[0] > 0 {
			w.maxSize[0] = max(w.maxSize[0], w.width)
		}
		if w.maxSize[1] > 0 {
			w.maxSize[1] = max(w.maxSize[1], w.height)
		}
	}
}

// WithMinSize bounds how small the user can resize the window. Zero leaves a dimension
// unbounded.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minSize = [2]int{max(width, 0), max(height, 0)}
	}
}

// WithMaxSize bounds how large the user can resize the window. Zero leaves a dimension
// unbounded. A bound below the minimum is raised to the minimum.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			width = max(width, w.minSize[0])
		}
		if height > 0 {
			height = max(height, w.minSize[1])
		}
		w.maxSize = [2]int{max(width, 0), max(height, 0)}
	}
}
