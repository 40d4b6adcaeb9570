// Package config loads fractal parameter files.
//
// A parameter file is YAML. Top-level keys set the base parameters and the
// optional variants map holds named overrides:
//
//	kind: mandelbrot
//	center_real: -0.8
//	radius: 1.3
//	max_iter: 200
//	norm: smooth
//	colormap: gradient
//	gradient: sunrise
//	variants:
//	  seahorse:
//	    center_real: -0.745
//	    center_imag: 0.1
//	    radius: 0.01
//
// A variant not found in the file is parsed as an inline YAML or JSON
// mapping, e.g. '{"max_iter": 500}'.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/fractal"
)

// ErrUnknownVariant is returned for a variant that is neither a name of
// the file nor an inline mapping.
var ErrUnknownVariant = errors.New("config: unknown variant")

// Fields are the parameter keys. Nil fields are unset and keep the
// defaults of the kind.
type Fields struct {
	Kind  *string `yaml:"kind,omitempty"`
	Julia *bool   `yaml:"julia,omitempty"`

	CenterReal *float64 `yaml:"center_real,omitempty"`
	CenterImag *float64 `yaml:"center_imag,omitempty"`
	Radius     *float64 `yaml:"radius,omitempty"`

	CReal *float64 `yaml:"c_real,omitempty"`
	CImag *float64 `yaml:"c_imag,omitempty"`

	MaxIter           *int     `yaml:"max_iter,omitempty"`
	EscapeRadius      *float64 `yaml:"escape_radius,omitempty"`
	EscapeTest        *string  `yaml:"escape_test,omitempty"`
	Norm              *string  `yaml:"norm,omitempty"`
	FoldLastIteration *bool    `yaml:"fold_last_iteration,omitempty"`

	Colormap *string `yaml:"colormap,omitempty"`
	Gradient *string `yaml:"gradient,omitempty"`

	Sequence *string  `yaml:"sequence,omitempty"`
	Warmup   *int     `yaml:"warmup,omitempty"`
	X0       *float64 `yaml:"x0,omitempty"`
}

// File is a parameter file.
type File struct {
	Fields   `yaml:",inline"`
	Variants map[string]Fields `yaml:"variants,omitempty"`

	// dir resolves relative gradient paths.
	dir string
}

// Resolved is a parameter set ready for fractal.NewRenderer.
type Resolved struct {
	Params fractal.Params
	Center complex128
	Radius float64
	// Gradient is nil when no gradient is configured.
	Gradient *fractal.Gradient
}

// Parse decodes a parameter file. dir resolves relative gradient paths.
func Parse(data []byte, dir string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f.dir = dir
	return &f, nil
}

// Read reads and decodes the parameter file at path.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Load reads path and resolves it with variant. An empty variant resolves
// the base parameters.
func Load(path, variant string) (*Resolved, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return f.Resolve(variant)
}

// Variant returns the fields of a named or inline variant.
func (f *File) Variant(variant string) (Fields, error) {
	if v, ok := f.Variants[variant]; ok {
		return v, nil
	}
	var v Fields
	trimmed := strings.TrimSpace(variant)
	if !strings.HasPrefix(trimmed, "{") {
		return v, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	if err := yaml.Unmarshal([]byte(trimmed), &v); err != nil {
		return v, fmt.Errorf("%w: %q: %w", ErrUnknownVariant, variant, err)
	}
	return v, nil
}

// Resolve merges variant over the base fields and builds the parameters.
func (f *File) Resolve(variant string) (*Resolved, error) {
	fields := f.Fields
	if variant != "" {
		v, err := f.Variant(variant)
		if err != nil {
			return nil, err
		}
		fields = fields.Merge(v)
	}
	return fields.Resolve(f.dir)
}

// Merge returns f with every set field of o applied over it.
func (f Fields) Merge(o Fields) Fields {
	setPtr(&f.Kind, o.Kind)
	setPtr(&f.Julia, o.Julia)
	setPtr(&f.CenterReal, o.CenterReal)
	setPtr(&f.CenterImag, o.CenterImag)
	setPtr(&f.Radius, o.Radius)
	setPtr(&f.CReal, o.CReal)
	setPtr(&f.CImag, o.CImag)
	setPtr(&f.MaxIter, o.MaxIter)
	setPtr(&f.EscapeRadius, o.EscapeRadius)
	setPtr(&f.EscapeTest, o.EscapeTest)
	setPtr(&f.Norm, o.Norm)
	setPtr(&f.FoldLastIteration, o.FoldLastIteration)
	setPtr(&f.Colormap, o.Colormap)
	setPtr(&f.Gradient, o.Gradient)
	setPtr(&f.Sequence, o.Sequence)
	setPtr(&f.Warmup, o.Warmup)
	setPtr(&f.X0, o.X0)
	return f
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// Resolve builds the parameters. Unset fields take the defaults of the
// kind (fractal.DefaultParams and fractal.DefaultView).
func (f Fields) Resolve(dir string) (*Resolved, error) {
	kind := fractal.Mandelbrot
	if f.Kind != nil {
		k, err := fractal.ParseKind(*f.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	if f.Julia != nil && *f.Julia {
		kind = juliaOf(kind)
	}

	p := fractal.DefaultParams(kind)
	center, radius := fractal.DefaultView(kind)

	if f.CenterReal != nil {
		center = complex(*f.CenterReal, imag(center))
	}
	if f.CenterImag != nil {
		center = complex(real(center), *f.CenterImag)
	}
	if f.Radius != nil {
		radius = *f.Radius
	}
	if f.CReal != nil {
		p.Seed = complex(*f.CReal, imag(p.Seed))
	}
	if f.CImag != nil {
		p.Seed = complex(real(p.Seed), *f.CImag)
	}
	if f.MaxIter != nil {
		p.MaxIter = *f.MaxIter
	}
	if f.EscapeRadius != nil {
		p.EscapeRadius = *f.EscapeRadius
	}
	if f.EscapeTest != nil {
		t, err := fractal.ParseEscapeTest(*f.EscapeTest)
		if err != nil {
			return nil, err
		}
		p.EscapeTest = t
	}
	if f.Norm != nil {
		n, err := fractal.ParseNormalization(*f.Norm)
		if err != nil {
			return nil, err
		}
		p.Normalization = n
	}
	if f.FoldLastIteration != nil {
		p.FoldLastIteration = *f.FoldLastIteration
	}
	if f.Colormap != nil {
		m, err := fractal.ParseColorMode(*f.Colormap)
		if err != nil {
			return nil, err
		}
		p.ColorMode = m
	}
	if f.Sequence != nil {
		p.LyapunovSequence = *f.Sequence
	}
	if f.Warmup != nil {
		p.LyapunovWarmup = *f.Warmup
	}
	if f.X0 != nil {
		p.LyapunovX0 = *f.X0
	}

	res := &Resolved{Params: p, Center: center, Radius: radius}
	if f.Gradient != nil {
		g, err := LoadGradient(*f.Gradient, dir)
		if err != nil {
			return nil, err
		}
		res.Gradient = g
		if f.Colormap == nil {
			res.Params.ColorMode = fractal.ColorGradient
		}
	}

	if err := res.Params.Validate(); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: got %v", fractal.ErrZeroRadius, radius)
	}
	return res, nil
}

// juliaOf returns the Julia counterpart of a kind.
func juliaOf(k fractal.Kind) fractal.Kind {
	switch k {
	case fractal.Mandelbrot:
		return fractal.Julia
	case fractal.BurningShip:
		return fractal.BurningJulia
	}
	return k
}

// LoadGradient returns a built-in gradient by name, or parses the GIMP
// gradient file at name when it ends in .ggr. Relative paths are resolved
// against dir.
func LoadGradient(name, dir string) (*fractal.Gradient, error) {
	if !strings.EqualFold(filepath.Ext(name), ".ggr") {
		return fractal.BuiltinGradient(name)
	}
	path := name
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	f, err := os.Open(path) //nolint:gosec // gradient path is user supplied
	if err != nil {
		return nil, fmt.Errorf("config: gradient: %w", err)
	}
	defer f.Close()
	return fractal.ParseGGR(f)
}
