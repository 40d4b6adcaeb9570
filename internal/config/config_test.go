package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/fractal"
)

const mandelbrotYAML = `
kind: mandelbrot
center_real: -0.5
radius: 1.5
max_iter: 200
norm: smooth
gradient: ocean
variants:
  seahorse:
    center_real: -0.745
    center_imag: 0.1
    radius: 0.01
    max_iter: 1000
  julia:
    julia: true
    c_real: -0.8
    c_imag: 0.156
    escape_test: chebyshev
    colormap: hot
`

const redGGR = `GIMP Gradient
Name: red
1
0.000000 0.500000 1.000000 1.000000 0.000000 0.000000 1.000000 1.000000 0.000000 0.000000 1.000000 0 0
`

func TestResolve_Base(t *testing.T) {
	f, err := Parse([]byte(mandelbrotYAML), "")
	if err != nil {
		t.Fatal(err)
	}
	r, err := f.Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.Params.Kind != fractal.Mandelbrot {
		t.Errorf("Kind = %v, want mandelbrot", r.Params.Kind)
	}
	// center_imag unset keeps the default view.
	if r.Center != complex(-0.5, 0) || r.Radius != 1.5 {
		t.Errorf("view = %v/%v, want (-0.5+0i)/1.5", r.Center, r.Radius)
	}
	if r.Params.MaxIter != 200 || r.Params.Normalization != fractal.NormSmooth {
		t.Errorf("MaxIter = %d, Normalization = %v", r.Params.MaxIter, r.Params.Normalization)
	}
	// A gradient without colormap selects the gradient color mode.
	if r.Gradient == nil || r.Params.ColorMode != fractal.ColorGradient {
		t.Errorf("Gradient = %v, ColorMode = %v, want gradient", r.Gradient, r.Params.ColorMode)
	}
	if r.Params.EscapeRadius != 2 {
		t.Errorf("EscapeRadius = %v, want the default 2", r.Params.EscapeRadius)
	}
}

func TestResolve_NamedVariant(t *testing.T) {
	f, err := Parse([]byte(mandelbrotYAML), "")
	if err != nil {
		t.Fatal(err)
	}
	r, err := f.Resolve("seahorse")
	if err != nil {
		t.Fatal(err)
	}
	if r.Center != complex(-0.745, 0.1) || r.Radius != 0.01 || r.Params.MaxIter != 1000 {
		t.Errorf("seahorse = %v/%v max_iter %d", r.Center, r.Radius, r.Params.MaxIter)
	}
	// Base fields not overridden survive.
	if r.Params.Normalization != fractal.NormSmooth {
		t.Errorf("Normalization = %v, want smooth", r.Params.Normalization)
	}

	r, err = f.Resolve("julia")
	if err != nil {
		t.Fatal(err)
	}
	if r.Params.Kind != fractal.Julia {
		t.Errorf("Kind = %v, want julia", r.Params.Kind)
	}
	if r.Params.Seed != complex(-0.8, 0.156) {
		t.Errorf("Seed = %v, want (-0.8+0.156i)", r.Params.Seed)
	}
	if r.Params.EscapeTest != fractal.EscapeChebyshev || r.Params.ColorMode != fractal.ColorHot {
		t.Errorf("EscapeTest = %v, ColorMode = %v", r.Params.EscapeTest, r.Params.ColorMode)
	}
}

func TestResolve_InlineVariant(t *testing.T) {
	f, err := Parse([]byte(mandelbrotYAML), "")
	if err != nil {
		t.Fatal(err)
	}
	r, err := f.Resolve(`{"max_iter": 64, "kind": "burning-ship", "julia": true}`)
	if err != nil {
		t.Fatalf("Resolve(inline) error = %v", err)
	}
	if r.Params.MaxIter != 64 || r.Params.Kind != fractal.BurningJulia {
		t.Errorf("inline variant = kind %v max_iter %d", r.Params.Kind, r.Params.MaxIter)
	}

	if _, err := f.Resolve("nope"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Resolve(nope) error = %v, want ErrUnknownVariant", err)
	}
	if _, err := f.Resolve("{not yaml"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Resolve(malformed) error = %v, want ErrUnknownVariant", err)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := map[string]struct {
		yaml string
		want error
	}{
		"kind":     {"kind: sierpinski\n", fractal.ErrInvalidParams},
		"norm":     {"norm: wavy\n", fractal.ErrInvalidParams},
		"colormap": {"colormap: plaid\n", fractal.ErrInvalidParams},
		"max_iter": {"max_iter: 0\n", fractal.ErrInvalidParams},
		"radius":   {"radius: 0\n", fractal.ErrZeroRadius},
		"gradient": {"gradient: rainbow\n", fractal.ErrInvalidParams},
		"escape":   {"escape_test: taxicab\n", fractal.ErrInvalidParams},
		"lyapunov": {"kind: lyapunov\nsequence: ABC\n", fractal.ErrInvalidParams},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml), "")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := f.Resolve(""); !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("max_iter: [1, 2"), ""); err == nil {
		t.Error("Parse() of malformed YAML should fail")
	}
}

func TestLoad_GradientFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "red.ggr"), []byte(redGGR), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := "kind: lyapunov\nsequence: AABAB\ngradient: red.ggr\ncolormap: gradient\n"
	path := filepath.Join(dir, "lyapunov.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Params.Kind != fractal.MarkusLyapunov || r.Params.LyapunovSequence != "AABAB" {
		t.Errorf("params = %+v", r.Params)
	}
	if r.Center != complex(2, 2) || r.Radius != 2 {
		t.Errorf("view = %v/%v, want the lyapunov default", r.Center, r.Radius)
	}
	if r.Gradient == nil || r.Gradient.At(0.5) != fractal.RGB(0xff0000) {
		t.Errorf("gradient = %v, want solid red", r.Gradient)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), ""); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestFields_Merge(t *testing.T) {
	a, b := 1.0, 2.0
	n := 10
	base := Fields{Radius: &a, MaxIter: &n}
	merged := base.Merge(Fields{Radius: &b})
	if *merged.Radius != 2 || *merged.MaxIter != 10 {
		t.Errorf("Merge() = radius %v max_iter %v", *merged.Radius, *merged.MaxIter)
	}
	if *base.Radius != 1 {
		t.Error("Merge() modified the receiver")
	}
}
