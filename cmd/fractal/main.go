// Command fractal renders escape-time fractals to PNG files, records
// animations frame by frame, or streams frames to a browser.
//
// Usage:
//
//	fractal -kind mandelbrot -size 4 -colormap hot -output mandel.png
//	fractal -kind julia -c '-0.8+0.156j' -max_iter 200 -norm smooth
//	fractal -landmark seahorse-valley -zoom-out 250 -record frames/
//	fractal -config params.yaml -variant seahorse -gpu
//	fractal -kind burning-julia -serve :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/animation"
	"github.com/gogpu/fractal/gpu"
	"github.com/gogpu/fractal/internal/config"
	"github.com/gogpu/fractal/internal/stream"
)

// options are the parsed command line flags.
type options struct {
	kind     string
	size     float64
	center   string
	radius   float64
	worker   int
	seed     string
	colormap string
	gradient string
	norm     string
	maxIter  int
	c        string
	useGPU   bool
	record   string
	output   string
	frames   int
	zoomOut  int
	config   string
	variant  string
	landmark string
	serve    string
	debug    bool
	overlay  bool
	setFlags map[string]bool
}

func main() {
	var o options
	flag.StringVar(&o.kind, "kind", "mandelbrot", "fractal kind: mandelbrot, julia, burning-ship, burning-julia, lyapunov")
	flag.Float64Var(&o.size, "size", 2.5, "render size, the window is 100*size pixels wide and high")
	flag.StringVar(&o.center, "center", "", "plane center, e.g. -0.8+0j (default depends on the kind)")
	flag.Float64Var(&o.radius, "radius", 0, "plane radius (default depends on the kind)")
	flag.IntVar(&o.worker, "worker", 0, "number of CPU workers, must divide the pixel count (0: auto)")
	flag.StringVar(&o.seed, "seed", "", "lyapunov sequence of A and B")
	flag.StringVar(&o.colormap, "colormap", "", "color mode: grayscale, gradient, hot, obfu, dark, bright, lyapunov")
	flag.StringVar(&o.gradient, "gradient", "", "built-in gradient name or .ggr file")
	flag.StringVar(&o.norm, "norm", "", "normalization: flat, smooth")
	flag.IntVar(&o.maxIter, "max_iter", 0, "iteration limit (default depends on the kind)")
	flag.StringVar(&o.c, "c", "", "complex seed of the julia kinds, e.g. -0.8+0.156j")
	flag.BoolVar(&o.useGPU, "gpu", false, "evaluate on the GPU when available")
	flag.StringVar(&o.record, "record", "", "write every frame as DIR/%04d.png")
	flag.StringVar(&o.output, "output", "fractal.png", "file receiving the last frame when not recording")
	flag.IntVar(&o.frames, "frames", 1, "number of frames to render")
	flag.IntVar(&o.zoomOut, "zoom-out", 0, "animate a zoom out to the default view over N frames")
	flag.StringVar(&o.config, "config", "", "YAML parameter file")
	flag.StringVar(&o.variant, "variant", "", "variant of the parameter file, by name or inline JSON")
	flag.StringVar(&o.landmark, "landmark", "", "start at a named mandelbrot landmark")
	flag.StringVar(&o.serve, "serve", "", "serve frames over a websocket on this address")
	flag.BoolVar(&o.debug, "debug", false, "log debug information")
	flag.BoolVar(&o.overlay, "overlay", false, "draw axis, formula and frame number")
	flag.Parse()

	o.setFlags = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.setFlags[f.Name] = true })

	if o.debug {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil && !errors.Is(err, context.Canceled) {
		stop()
		log.Fatalf("fractal: %v", err)
	}
}

// scene is the resolved render configuration.
type scene struct {
	params   fractal.Params
	center   complex128
	radius   float64
	gradient *fractal.Gradient
	width    int
	height   int
}

func run(ctx context.Context, o options) error {
	sc, err := resolve(o)
	if err != nil {
		return err
	}

	if o.serve != "" {
		srv := stream.NewServer(func() (*fractal.Renderer, error) {
			return newRenderer(sc, o)
		})
		return srv.ListenAndServe(ctx, o.serve)
	}

	r, err := newRenderer(sc, o)
	if err != nil {
		return err
	}
	defer r.Close()

	var rec *fractal.Recorder
	if o.record != "" {
		if rec, err = fractal.NewRecorder(o.record); err != nil {
			return err
		}
	}

	frames := o.frames
	var zoom *animation.ZoomOut
	if o.zoomOut > 0 {
		toCenter, toRadius := fractal.DefaultView(sc.params.Kind)
		zoom, err = animation.NewZoomOut(sc.center, sc.radius, toCenter, toRadius, o.zoomOut)
		if err != nil {
			return err
		}
		frames = zoom.Len()
	}

	for frame := range max(frames, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if zoom != nil {
			if err := zoom.Apply(r, frame); err != nil {
				return err
			}
		}
		img, err := r.Render(frame)
		if err != nil {
			return err
		}
		if rec != nil {
			if _, err := rec.Capture(img, frame); err != nil {
				return err
			}
			continue
		}
		if frame == max(frames, 1)-1 {
			if err := writePNG(o.output, img); err != nil {
				return err
			}
			log.Printf("frame saved to %s (%dx%d, %s)", o.output, sc.width, sc.height, r.BackendName())
		}
	}
	if rec != nil {
		log.Printf("%d frames recorded in %s", max(frames, 1), rec.Dir())
	}
	return nil
}

func newRenderer(sc scene, o options) (*fractal.Renderer, error) {
	var opts []fractal.RendererOption
	if o.worker > 0 {
		opts = append(opts, fractal.WithWorkers(o.worker))
	}
	if sc.gradient != nil {
		opts = append(opts, fractal.WithGradient(sc.gradient))
	}
	if o.overlay {
		opts = append(opts, fractal.WithOverlay(&fractal.Overlay{Axis: true, Formula: true, Seed: true, Frame: true}))
	}
	if o.useGPU {
		opts = append(opts, fractal.WithBackend(gpu.New()))
	}

	r, err := fractal.NewRenderer(sc.width, sc.height, sc.center, sc.radius, sc.params, opts...)
	if err != nil {
		return nil, err
	}
	if o.useGPU && r.BackendName() == "cpu" {
		fmt.Fprintln(os.Stderr, "fractal: GPU backend unavailable, rendering on the CPU")
	}
	return r, nil
}

// resolve builds the scene from the parameter file, if any, and the flags
// set on the command line, which take precedence.
func resolve(o options) (scene, error) {
	side := int(100 * o.size)
	if side <= 0 {
		return scene{}, fmt.Errorf("invalid size %v", o.size)
	}
	sc := scene{width: side, height: side}

	if o.config != "" {
		res, err := config.Load(o.config, o.variant)
		if err != nil {
			return sc, err
		}
		sc.params, sc.center, sc.radius, sc.gradient = res.Params, res.Center, res.Radius, res.Gradient
		if o.setFlags["kind"] {
			if err := setKind(&sc, o.kind); err != nil {
				return sc, err
			}
		}
	} else if err := setKind(&sc, o.kind); err != nil {
		return sc, err
	}

	if o.landmark != "" {
		lm, ok := fractal.FindLandmark(o.landmark)
		if !ok {
			return sc, fmt.Errorf("unknown landmark %q", o.landmark)
		}
		sc.center, sc.radius = lm.Center, lm.Radius
	}
	if o.setFlags["center"] {
		c, err := parseComplex(o.center)
		if err != nil {
			return sc, fmt.Errorf("-center: %w", err)
		}
		sc.center = c
	}
	if o.setFlags["radius"] {
		sc.radius = o.radius
	}
	if o.setFlags["c"] {
		c, err := parseComplex(o.c)
		if err != nil {
			return sc, fmt.Errorf("-c: %w", err)
		}
		sc.params.Seed = c
	}
	if o.setFlags["seed"] {
		sc.params.LyapunovSequence = strings.ToUpper(o.seed)
	}
	if o.setFlags["max_iter"] {
		sc.params.MaxIter = o.maxIter
	}
	if o.setFlags["norm"] {
		n, err := fractal.ParseNormalization(o.norm)
		if err != nil {
			return sc, err
		}
		sc.params.Normalization = n
	}
	if o.setFlags["gradient"] {
		g, err := config.LoadGradient(o.gradient, "")
		if err != nil {
			return sc, err
		}
		sc.gradient = g
		sc.params.ColorMode = fractal.ColorGradient
	}
	if o.setFlags["colormap"] {
		m, err := fractal.ParseColorMode(o.colormap)
		if err != nil {
			return sc, err
		}
		sc.params.ColorMode = m
	}
	return sc, sc.params.Validate()
}

// setKind resets the parameters and the view to the defaults of kind.
func setKind(sc *scene, name string) error {
	k, err := fractal.ParseKind(name)
	if err != nil {
		return err
	}
	sc.params = fractal.DefaultParams(k)
	sc.center, sc.radius = fractal.DefaultView(k)
	return nil
}

// parseComplex accepts Go ("1+2i") and Python ("1+2j") notations.
func parseComplex(s string) (complex128, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "j") {
		s = strings.TrimSuffix(s, "j") + "i"
	}
	return strconv.ParseComplex(s, 128)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // output path comes from the command line
	if err != nil {
		return err
	}
	if err := fractal.EncodePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
