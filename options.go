package fractal

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// CPU rendering on every core
//	r, err := fractal.NewRenderer(800, 600, center, radius, params)
//
//	// GPU evaluation with an explicit gradient
//	r, err := fractal.NewRenderer(800, 600, center, radius, params,
//		fractal.WithBackend(gpu.New()),
//		fractal.WithGradient(fractal.Ocean()))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	backend  ComputeBackend
	workers  int
	explicit bool // workers set by WithWorkers
	gradient *Gradient
	overlay  *Overlay
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{}
}

// WithBackend sets a compute backend tried before the CPU path.
// The renderer takes ownership: it calls Init and Close on it.
func WithBackend(b ComputeBackend) RendererOption {
	return func(o *rendererOptions) {
		o.backend = b
	}
}

// WithWorkers sets the number of CPU workers. The pixel count must be a
// multiple of n, otherwise NewRenderer fails with ErrIndivisibleChunks.
//
// Without this option the renderer uses the largest divisor of the pixel
// count that does not exceed GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
		o.explicit = true
	}
}

// WithGradient sets the gradient used by ColorGradient.
func WithGradient(g *Gradient) RendererOption {
	return func(o *rendererOptions) {
		o.gradient = g
	}
}

// WithOverlay draws the overlay on every rendered frame.
func WithOverlay(ov *Overlay) RendererOption {
	return func(o *rendererOptions) {
		o.overlay = ov
	}
}
