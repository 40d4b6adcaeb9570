package fractal

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/fractal/internal/parallel"
)

// PixelChunk is a contiguous range of the flat pixel index space handed to
// one worker.
type PixelChunk struct {
	// Offset is the flat index of the first point.
	Offset int
	// Length is len(Points).
	Length int
	// Points are the plane coordinates of the chunk. Read only.
	Points []complex128
}

// ChunkFunc evaluates one chunk. It must return exactly chunk.Length
// samples and must not retain chunk.Points.
type ChunkFunc func(chunk PixelChunk) []Sample

// Dispatcher splits a frame into equal contiguous chunks and evaluates them
// on a persistent worker pool.
//
// The pool is created once by NewDispatcher and reused for every frame.
// Dispatch blocks until every chunk has returned; results are reassembled
// in chunk order, so the output is identical to a serial evaluation.
type Dispatcher struct {
	workers int
	pool    *parallel.Pool // nil when workers == 1
	closed  atomic.Bool
}

// NewDispatcher creates a dispatcher with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used. With a single worker
// chunks run synchronously on the caller's goroutine.
func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	d := &Dispatcher{workers: workers}
	if workers > 1 {
		d.pool = parallel.NewPool(workers)
	}
	return d
}

// Workers returns the number of chunks per frame.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// CheckLength reports whether a frame of n points can be split evenly.
// It returns ErrIndivisibleChunks otherwise.
func (d *Dispatcher) CheckLength(n int) error {
	if n%d.workers != 0 {
		return fmt.Errorf("%w: %d pixels, %d workers", ErrIndivisibleChunks, n, d.workers)
	}
	return nil
}

// Dispatch evaluates points with fn and returns the concatenated samples.
//
// A panicking chunk yields ErrWorkerPanic and a chunk returning the wrong
// number of samples yields ErrChunkLength. In both cases no samples are
// returned.
func (d *Dispatcher) Dispatch(points []complex128, fn ChunkFunc) ([]Sample, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	n := len(points)
	if err := d.CheckLength(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []Sample{}, nil
	}

	if d.pool == nil {
		return runSerial(points, fn)
	}

	size := n / d.workers
	results := make([][]Sample, d.workers)
	err := d.pool.Run(d.workers, func(i int) {
		off := i * size
		results[i] = fn(PixelChunk{
			Offset: off,
			Length: size,
			Points: points[off : off+size : off+size],
		})
	})
	if err != nil {
		var perr *parallel.PanicError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrWorkerPanic, perr.Job, perr.Value)
		}
		if errors.Is(err, parallel.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}

	out := make([]Sample, 0, n)
	for i, r := range results {
		if len(r) != size {
			return nil, fmt.Errorf("%w: chunk %d returned %d samples, want %d", ErrChunkLength, i, len(r), size)
		}
		out = append(out, r...)
	}
	return out, nil
}

func runSerial(points []complex128, fn ChunkFunc) (out []Sample, err error) {
	defer func() {
		if v := recover(); v != nil {
			out, err = nil, fmt.Errorf("%w: chunk 0: %v", ErrWorkerPanic, v)
		}
	}()
	out = fn(PixelChunk{Length: len(points), Points: points})
	if len(out) != len(points) {
		return nil, fmt.Errorf("%w: chunk 0 returned %d samples, want %d", ErrChunkLength, len(out), len(points))
	}
	return out, nil
}

// Close stops the worker pool. Dispatch returns ErrClosed afterwards.
// Close is safe to call multiple times.
func (d *Dispatcher) Close() {
	d.closed.Store(true)
	if d.pool != nil {
		d.pool.Close()
	}
}

// EvaluateChunk returns a ChunkFunc evaluating chunks with p.
func EvaluateChunk(p Params) ChunkFunc {
	return func(chunk PixelChunk) []Sample {
		return Evaluate(chunk.Points, p)
	}
}
