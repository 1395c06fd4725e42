package interact

// ClickCarrier is a wire shape able to carry the click flag into the fragment stage.
// Both shapes decode to the same internal boolean so the highlight logic exists once.
type ClickCarrier interface {
	// Clicked reports whether the carried flag marks the fragment as clicked.
	//
	// Returns:
	//   - bool: true if the click highlight applies
	Clicked() bool
}

// ScalarFlag carries the click flag as a single flat-interpolated integer.
type ScalarFlag uint32

// Clicked reports whether the scalar is non-zero.
func (s ScalarFlag) Clicked() bool {
	return s != 0
}

// ControlWord carries the raw four-component control word into the fragment stage.
// Only an x component equal to 1 counts as a click; a pre-transformed click (0b11) does not.
type ControlWord [4]uint32

// Clicked reports whether the first component equals 1.
func (w ControlWord) Clicked() bool {
	return w[0] == 1
}

var (
	_ ClickCarrier = ScalarFlag(0)
	_ ClickCarrier = ControlWord{}
)
