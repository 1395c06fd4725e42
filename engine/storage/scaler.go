package storage

import "fmt"

// ScalerStep is added to the readback counter once per frame.
const ScalerStep float32 = 0.0001

// ReadbackScaler rescales storage records after the GPU pass has run.
// Each frame it multiplies color.z and position.x of every record by a counter that
// grows by ScalerStep, starting from zero.
type ReadbackScaler struct {
	counter float32
}

// Counter returns the factor the next Scale call will use.
func (s *ReadbackScaler) Counter() float32 {
	return s.counter
}

// Scale applies the current counter to the arena, then advances the counter.
//
// Parameters:
//   - arena: the arena to rescale
func (s *ReadbackScaler) Scale(arena *Arena) {
	for i := range arena {
		arena[i].Color[2] *= s.counter
		arena[i].Position[0] *= s.counter
	}
	s.counter += ScalerStep
}

// ScaleBytes decodes a read-back storage buffer, rescales it and re-encodes it for upload.
//
// Parameters:
//   - buf: the storage buffer contents
//
// Returns:
//   - []byte: the rescaled buffer
//   - error: error if buf is too short
func (s *ReadbackScaler) ScaleBytes(buf []byte) ([]byte, error) {
	var arena Arena
	if err := arena.Unmarshal(buf); err != nil {
		return nil, fmt.Errorf("failed to decode storage readback: %w", err)
	}
	s.Scale(&arena)
	return arena.Marshal(), nil
}
