package fractal

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"
)

// Renderer renders frames of one fractal into RGBA images.
//
// A Renderer owns a persistent CPU worker pool and, optionally, a compute
// backend. View and parameter setters may be called between frames from
// any goroutine; a frame in progress keeps the values it started with.
type Renderer struct {
	vp *Viewport

	mu       sync.Mutex
	params   Params
	mapper   ColorMapper
	gradient *Gradient
	overlay  *Overlay
	closed   bool

	cpu     *CPUBackend
	backend ComputeBackend // nil when none or unavailable
}

// NewRenderer creates a renderer for a w x h window showing the plane
// around center.
//
// Configuration errors are returned immediately: ErrZeroRadius,
// ErrInvalidSize, ErrInvalidParams and ErrIndivisibleChunks.
func NewRenderer(w, h int, center complex128, radius float64, p Params, opts ...RendererOption) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	vp, err := NewViewport(center, radius, w, h)
	if err != nil {
		return nil, err
	}
	mapper, err := NewColorMapper(p.ColorMode, o.gradient)
	if err != nil {
		return nil, err
	}

	workers := o.workers
	if !o.explicit {
		workers = largestDivisor(w*h, runtime.GOMAXPROCS(0))
	}
	cpu := NewCPUBackend(workers)
	if err := cpu.Dispatcher().CheckLength(w * h); err != nil {
		cpu.Close()
		return nil, err
	}

	r := &Renderer{
		vp:       vp,
		params:   p,
		mapper:   mapper,
		gradient: o.gradient,
		overlay:  o.overlay,
		cpu:      cpu,
	}
	if o.backend != nil {
		r.backend = initBackend(o.backend)
	}

	Logger().Debug("fractal: renderer created",
		"kind", p.Kind, "size", fmt.Sprintf("%dx%d", w, h),
		"workers", cpu.Dispatcher().Workers(), "backend", r.BackendName())
	return r, nil
}

// initBackend initializes b and returns it, or nil if it is unusable.
func initBackend(b ComputeBackend) ComputeBackend {
	propagateLogger(b, Logger())
	if err := b.Init(); err != nil {
		Logger().Warn("fractal: backend unavailable, using CPU", "backend", b.Name(), "err", err)
		b.Close()
		return nil
	}
	if a, ok := b.(Availability); ok && !a.Available() {
		Logger().Warn("fractal: backend unavailable, using CPU", "backend", b.Name())
		b.Close()
		return nil
	}
	Logger().Info("fractal: backend ready", "backend", b.Name())
	return b
}

// largestDivisor returns the largest divisor of n not above limit.
func largestDivisor(n, limit int) int {
	for d := min(limit, n); d > 1; d-- {
		if n%d == 0 {
			return d
		}
	}
	return 1
}

// Render evaluates and colors one frame. The frame index is only used for
// logging and the overlay.
func (r *Renderer) Render(frame int) (*image.RGBA, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	p := r.params
	mapper := r.mapper
	overlay := r.overlay
	r.mu.Unlock()

	start := time.Now()
	view := r.vp.Snapshot()
	var points []complex128
	if p.Kind == MarkusLyapunov {
		points = view.FlippedPoints()
	} else {
		points = view.Points()
	}

	samples, backend, err := r.evaluate(points, p)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame, err)
	}
	elapsed := time.Since(start)

	img := image.NewRGBA(image.Rect(0, 0, view.Width, view.Height))
	Colorize(img.Pix, samples, mapper)
	if overlay != nil {
		overlay.Draw(img, view, p, frame)
	}

	Logger().Debug("fractal: frame rendered",
		"frame", frame, "backend", backend,
		"evaluate", elapsed, "total", time.Since(start))
	return img, nil
}

// evaluate runs the backend if it supports the kind and falls back to the
// CPU otherwise.
func (r *Renderer) evaluate(points []complex128, p Params) ([]Sample, string, error) {
	if b := r.backend; b != nil && b.CanEvaluate(p.Kind) {
		samples, err := b.Evaluate(points, p)
		if err == nil {
			return samples, b.Name(), nil
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("fractal: backend evaluation failed, using CPU", "backend", b.Name(), "err", err)
		}
	}
	samples, err := r.cpu.Evaluate(points, p)
	return samples, r.cpu.Name(), err
}

// Colorize writes the colors of samples into pix, 4 bytes per sample with
// opaque alpha. pix must hold at least 4*len(samples) bytes.
func Colorize(pix []uint8, samples []Sample, m ColorMapper) {
	for i, s := range samples {
		c := m.Map(s)
		px := pix[i*4 : i*4+4 : i*4+4]
		px[0] = uint8(c >> 16)
		px[1] = uint8(c >> 8)
		px[2] = uint8(c)
		px[3] = 0xff
	}
}

// Viewport returns the renderer viewport. It may be mutated between
// frames.
func (r *Renderer) Viewport() *Viewport {
	return r.vp
}

// SetView changes the center, the radius, or both. See Viewport.SetView.
func (r *Renderer) SetView(center *complex128, radius *float64) error {
	return r.vp.SetView(center, radius)
}

// Params returns a copy of the current parameters.
func (r *Renderer) Params() Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// SetParams replaces the parameters. The color mapper is rebuilt when the
// color mode changes.
func (r *Renderer) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ColorMode != r.params.ColorMode {
		m, err := NewColorMapper(p.ColorMode, r.gradient)
		if err != nil {
			return err
		}
		r.mapper = m
	}
	r.params = p
	return nil
}

// SetSeed changes the Julia seed.
func (r *Renderer) SetSeed(c complex128) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params.Seed = c
}

// SetMaxIter changes the iteration limit.
func (r *Renderer) SetMaxIter(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: max_iter %d must be positive", ErrInvalidParams, n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params.MaxIter = n
	return nil
}

// SetGradient replaces the gradient of ColorGradient.
func (r *Renderer) SetGradient(g *Gradient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.params.ColorMode == ColorGradient {
		m, err := NewColorMapper(ColorGradient, g)
		if err != nil {
			return err
		}
		r.mapper = m
	}
	r.gradient = g
	return nil
}

// Perturb applies a modulation step: dc moves the seed of Julia kinds and
// the view center of the others, and the radius is multiplied by
// radiusFactor. A factor of 1 keeps the radius.
func (r *Renderer) Perturb(dc complex128, radiusFactor float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	julia := r.params.Kind.IsJulia()
	err := r.vp.Update(func(v View) (complex128, float64, error) {
		if julia {
			return v.Center, v.Radius * radiusFactor, nil
		}
		return v.Center + dc, v.Radius * radiusFactor, nil
	})
	if err != nil {
		return err
	}
	if julia {
		r.params.Seed += dc
	}
	return nil
}

// BackendName returns the name of the backend that evaluates supported
// kinds: the configured backend or "cpu".
func (r *Renderer) BackendName() string {
	if r.backend != nil {
		return r.backend.Name()
	}
	return r.cpu.Name()
}

// Close stops the worker pool and releases the backend. Render returns
// ErrClosed afterwards. Close is safe to call multiple times.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cpu.Close()
	if r.backend != nil {
		r.backend.Close()
	}
}
