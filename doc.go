// Package fractal provides an escape-time fractal engine for generative and
// audio-reactive visuals.
//
// # Overview
//
// The engine renders Mandelbrot, Julia, Burning-Ship, Burning-Julia and
// Markus-Lyapunov images. A frame goes through four stages:
//
//   - [Viewport] maps every window pixel to a point of the complex plane.
//   - [Dispatcher] splits the points into equal contiguous chunks and
//     evaluates them on a persistent worker pool.
//   - The escape evaluator iterates each point until it escapes or reaches
//     the iteration limit ([Evaluate], [Lyapunov]).
//   - A [ColorMapper] turns each [Sample] into a packed RGB value.
//
// [Renderer] ties the stages together and owns the pool and the optional
// GPU backend.
//
// # Quick Start
//
//	import "github.com/gogpu/fractal"
//
//	params := fractal.DefaultParams(fractal.Mandelbrot)
//	r, err := fractal.NewRenderer(800, 800, -0.8, 1.3, params)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	img, err := r.Render(0)
//
// # GPU
//
// Escape-time kinds can be evaluated by a compute shader. Create a backend
// with the gpu package and pass it with [WithBackend]:
//
//	r, err := fractal.NewRenderer(w, h, center, radius, params,
//		fractal.WithBackend(gpu.New()))
//
// When no adapter is available the renderer keeps using the CPU path.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package fractal
