package storage

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// AccumulatorStep is added to the kernel accumulator before each record is rewritten.
const AccumulatorStep float32 = 0.5

// VertexOutput is the pass-through output the kernel emits for the invoking vertex.
type VertexOutput struct {
	ClipPosition mgl32.Vec4
	Color        mgl32.Vec3
}

// Kernel runs the storage mutation pass against a single arena.
// Invocations are serialized by the kernel's mutex; the pass itself is strictly index-ordered.
type Kernel struct {
	mu    sync.Mutex
	arena *Arena
	runs  uint64
}

// NewKernel creates a kernel over the given arena. A nil arena allocates a zeroed one.
//
// Parameters:
//   - arena: the arena to mutate
//
// Returns:
//   - *Kernel: the kernel
func NewKernel(arena *Arena) *Kernel {
	if arena == nil {
		arena = &Arena{}
	}
	return &Kernel{arena: arena}
}

// Apply performs one pass over the arena and returns the final accumulator.
// The caller must hold exclusive access to arena. The result is always 5.
//
// Parameters:
//   - arena: the arena to mutate
//
// Returns:
//   - float32: the accumulator after the pass
func Apply(arena *Arena) float32 {
	var acc float32
	for i := 0; i < ArenaSize; i++ {
		acc += AccumulatorStep

		// both reads happen before either write to the same record
		cz := arena[i].Color.Z()
		px := arena[i].Position.X()

		arena[i].Color = mgl32.Vec3{px, acc * 2, acc * 3}
		arena[i].Position = mgl32.Vec3{acc, acc * 2, cz * 3}
	}
	return acc
}

// Invoke runs one kernel invocation: the arena pass plus the pass-through vertex output.
//
// Parameters:
//   - position: the invoking vertex position
//   - color: the invoking vertex color
//
// Returns:
//   - VertexOutput: the pass-through vertex output
//   - float32: the accumulator after the pass
func (k *Kernel) Invoke(position, color mgl32.Vec3) (VertexOutput, float32) {
	k.mu.Lock()
	acc := Apply(k.arena)
	k.runs++
	k.mu.Unlock()

	return VertexOutput{ClipPosition: position.Vec4(1), Color: color}, acc
}

// Snapshot returns a copy of the arena.
func (k *Kernel) Snapshot() Arena {
	k.mu.Lock()
	defer k.mu.Unlock()
	return *k.arena
}

// Update runs fn with exclusive access to the arena.
//
// Parameters:
//   - fn: the mutation to apply
func (k *Kernel) Update(fn func(*Arena)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fn(k.arena)
}

// Runs returns how many invocations have completed.
func (k *Kernel) Runs() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.runs
}
