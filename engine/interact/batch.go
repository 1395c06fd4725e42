package interact

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// defaultChunkSize is the number of vertices handed to one pool task.
const defaultChunkSize = 4096

// BatchEvaluator runs the interactive vertex stage over large vertex slices on a
// reusable worker pool. Used for CPU-side picking and for checking GPU output.
type BatchEvaluator struct {
	pool      worker.DynamicWorkerPool
	chunkSize int
}

// BatchEvaluatorOption configures a BatchEvaluator.
type BatchEvaluatorOption func(*BatchEvaluator)

// WithChunkSize sets how many vertices each pool task evaluates.
//
// Parameters:
//   - n: vertices per task, ignored when not positive
//
// Returns:
//   - BatchEvaluatorOption: the option
func WithChunkSize(n int) BatchEvaluatorOption {
	return func(b *BatchEvaluator) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// NewBatchEvaluator creates an evaluator backed by a dynamic worker pool.
//
// Parameters:
//   - workers: the maximum worker count; values below 1 use NumCPU-1
//   - options: optional configuration
//
// Returns:
//   - *BatchEvaluator: the evaluator
func NewBatchEvaluator(workers int, options ...BatchEvaluatorOption) *BatchEvaluator {
	if workers < 1 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	b := &BatchEvaluator{chunkSize: defaultChunkSize}
	for _, opt := range options {
		opt(b)
	}
	b.pool = worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	return b
}

// Evaluate runs VertexStage for every vertex. Output order matches input order.
//
// Parameters:
//   - verts: the input vertices
//   - viewport: the Controls size uniform
//
// Returns:
//   - []VertexOutput: one output per input vertex
func (b *BatchEvaluator) Evaluate(verts []GPUVertex, viewport mgl32.Vec4) []VertexOutput {
	out := make([]VertexOutput, len(verts))
	if len(verts) <= b.chunkSize {
		for i := range verts {
			out[i] = VertexStage(verts[i], viewport)
		}
		return out
	}

	// pool.Wait blocks until workers idle out, so each call gets its own barrier
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(verts); start += b.chunkSize {
		end := min(start+b.chunkSize, len(verts))
		lo, hi := start, end
		wg.Add(1)
		b.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					out[i] = VertexStage(verts[i], viewport)
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
	return out
}

// Clicked returns the indices of the vertices whose stage output carries the click flag.
//
// Parameters:
//   - verts: the input vertices
//   - viewport: the Controls size uniform
//
// Returns:
//   - []int: ascending vertex indices
func (b *BatchEvaluator) Clicked(verts []GPUVertex, viewport mgl32.Vec4) []int {
	var idx []int
	for i, o := range b.Evaluate(verts, viewport) {
		if o.Click.Clicked() {
			idx = append(idx, i)
		}
	}
	return idx
}
