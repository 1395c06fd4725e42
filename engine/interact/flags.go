package interact

// Control word bits carried in controls.x of every interactive vertex.
const (
	// FlagClick marks a vertex as belonging to a click-highlighted primitive.
	FlagClick uint32 = 1 << 0

	// FlagPretransformed marks a vertex whose position is already in clip space.
	FlagPretransformed uint32 = 1 << 1

	flagMask = FlagClick | FlagPretransformed
)

// ControlFlags is the decoded form of a vertex control word.
type ControlFlags struct {
	// IsClick reports whether the vertex belongs to a clicked primitive.
	IsClick bool

	// IsPretransformed reports whether the vertex position bypasses MapToClip.
	IsPretransformed bool
}

// Decode unpacks the low two bits of a control word. All other bits are ignored.
//
// Parameters:
//   - controlsX: the first component of a vertex control word
//
// Returns:
//   - ControlFlags: the decoded flags
func Decode(controlsX uint32) ControlFlags {
	return ControlFlags{
		IsClick:          controlsX&FlagClick != 0,
		IsPretransformed: (controlsX>>1)&1 != 0,
	}
}

// Encode packs the flags into a control word with every other bit cleared.
//
// Parameters:
//   - isClick: the click bit
//   - isPretransformed: the pre-transformed bit
//
// Returns:
//   - uint32: the packed control word
func Encode(isClick, isPretransformed bool) uint32 {
	var v uint32
	if isClick {
		v |= FlagClick
	}
	if isPretransformed {
		v |= FlagPretransformed
	}
	return v
}

// Word packs f back into a control word.
func (f ControlFlags) Word() uint32 {
	return Encode(f.IsClick, f.IsPretransformed)
}
