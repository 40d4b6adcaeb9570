package fractal

import (
	"errors"
	"fmt"
)

// ErrFallbackToCPU indicates a backend cannot evaluate the request.
// The renderer transparently evaluates on the CPU instead.
var ErrFallbackToCPU = errors.New("fractal: falling back to CPU evaluation")

// ComputeBackend evaluates a whole frame of points.
//
// A backend is an explicitly constructed object owned by one Renderer: the
// renderer calls Init once, Evaluate for each frame and Close when it is
// closed. GPU backends are provided by the gpu package.
type ComputeBackend interface {
	// Name returns the backend name (e.g., "cpu", "vulkan").
	Name() string

	// Init acquires the backend resources. A non-nil error makes the
	// renderer use the CPU path for its whole lifetime.
	Init() error

	// Close releases the backend resources.
	Close()

	// CanEvaluate reports whether the backend supports the kind.
	CanEvaluate(k Kind) bool

	// Evaluate returns one sample per point, in order. It blocks until the
	// samples are available. Returns ErrFallbackToCPU if the request
	// cannot be served.
	Evaluate(points []complex128, p Params) ([]Sample, error)
}

// Availability is implemented by backends that can report, after Init,
// whether they are usable.
type Availability interface {
	Available() bool
}

// CPUBackend evaluates frames with a Dispatcher.
type CPUBackend struct {
	d *Dispatcher
}

// NewCPUBackend creates a CPU backend with the given number of workers.
// See NewDispatcher for the meaning of workers.
func NewCPUBackend(workers int) *CPUBackend {
	return &CPUBackend{d: NewDispatcher(workers)}
}

// Name implements ComputeBackend.
func (b *CPUBackend) Name() string { return "cpu" }

// Init implements ComputeBackend.
func (b *CPUBackend) Init() error { return nil }

// Close stops the worker pool.
func (b *CPUBackend) Close() { b.d.Close() }

// CanEvaluate implements ComputeBackend. Every kind is supported.
func (b *CPUBackend) CanEvaluate(Kind) bool { return true }

// Dispatcher returns the dispatcher used by the backend.
func (b *CPUBackend) Dispatcher() *Dispatcher { return b.d }

// Evaluate implements ComputeBackend.
func (b *CPUBackend) Evaluate(points []complex128, p Params) ([]Sample, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	samples, err := b.d.Dispatch(points, EvaluateChunk(p))
	if err != nil {
		return nil, fmt.Errorf("cpu evaluate: %w", err)
	}
	return samples, nil
}
