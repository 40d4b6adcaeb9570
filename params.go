package fractal

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the iterated function.
type Kind int

const (
	// Mandelbrot iterates z*z + c from z = 0 with c the pixel.
	Mandelbrot Kind = iota
	// Julia iterates z*z + seed from z = pixel.
	Julia
	// BurningShip folds z to the positive quadrant before squaring.
	BurningShip
	// BurningJulia is the Julia form of BurningShip.
	BurningJulia
	// MarkusLyapunov computes the Lyapunov exponent of a forced logistic map.
	MarkusLyapunov
)

var kindNames = [...]string{"mandelbrot", "julia", "burning-ship", "burning-julia", "lyapunov"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsJulia reports whether the kind starts from the pixel and adds the seed.
func (k Kind) IsJulia() bool {
	return k == Julia || k == BurningJulia
}

// ParseKind resolves a fractal name. Underscores and dashes are equivalent.
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(s), "_", "-")
	switch name {
	case "ship":
		return BurningShip, nil
	case "juliaship":
		return BurningJulia, nil
	case "markus-lyapunov":
		return MarkusLyapunov, nil
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidParams, s)
}

// EscapeTest selects how a point is considered escaped.
type EscapeTest int

const (
	// EscapeModulus escapes when |z| > R.
	EscapeModulus EscapeTest = iota
	// EscapeChebyshev escapes when max(|Re z|, |Im z|) > R.
	EscapeChebyshev
)

func (e EscapeTest) String() string {
	switch e {
	case EscapeModulus:
		return "modulus"
	case EscapeChebyshev:
		return "chebyshev"
	}
	return fmt.Sprintf("EscapeTest(%d)", int(e))
}

// ParseEscapeTest resolves an escape test name.
func ParseEscapeTest(s string) (EscapeTest, error) {
	switch strings.ToLower(s) {
	case "modulus", "abs":
		return EscapeModulus, nil
	case "chebyshev", "max":
		return EscapeChebyshev, nil
	}
	return 0, fmt.Errorf("%w: unknown escape test %q", ErrInvalidParams, s)
}

// Normalization maps an escape iteration to a continuous value.
type Normalization int

const (
	// NormFlat is idx / maxIter.
	NormFlat Normalization = iota
	// NormSmooth subtracts the fractional escape count to remove banding.
	NormSmooth
	// NormCustom calls Params.Custom.
	NormCustom
)

func (n Normalization) String() string {
	switch n {
	case NormFlat:
		return "flat"
	case NormSmooth:
		return "smooth"
	case NormCustom:
		return "custom"
	}
	return fmt.Sprintf("Normalization(%d)", int(n))
}

// ParseNormalization resolves a normalization name.
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(s) {
	case "flat", "":
		return NormFlat, nil
	case "smooth", "smooth-escape", "mu":
		return NormSmooth, nil
	case "custom":
		return NormCustom, nil
	}
	return 0, fmt.Errorf("%w: unknown normalization %q", ErrInvalidParams, s)
}

// NormalizeFunc maps an escape to a value, usually in [0,1].
type NormalizeFunc func(idx int, modulus float64, maxIter int) float64

// ColorMode selects a ColorMapper strategy.
type ColorMode int

const (
	// ColorGrayscale is a linear black to white ramp.
	ColorGrayscale ColorMode = iota
	// ColorGradient indexes a precomputed gradient table.
	ColorGradient
	// ColorHot is a polynomial blend from dark blue through red to yellow.
	ColorHot
	// ColorObfu is the log-sine light blue map.
	ColorObfu
	// ColorDark is a dim blue to violet HSV ramp.
	ColorDark
	// ColorBright is a saturated HSV hue sweep.
	ColorBright
	// ColorLyapunov colors by the sign and size of the exponent.
	ColorLyapunov
)

var colorModeNames = [...]string{"grayscale", "gradient", "hot", "obfu", "dark", "bright", "lyapunov"}

func (m ColorMode) String() string {
	if m >= 0 && int(m) < len(colorModeNames) {
		return colorModeNames[m]
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode resolves a color map name.
func ParseColorMode(s string) (ColorMode, error) {
	name := strings.ToLower(s)
	switch name {
	case "gray", "greyscale":
		return ColorGrayscale, nil
	case "log_sin_lightblue", "log-sin-lightblue":
		return ColorObfu, nil
	}
	for i, n := range colorModeNames {
		if n == name {
			return ColorMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color mode %q", ErrInvalidParams, s)
}

// Params are the per-render fractal parameters. A Params value is copied
// by the renderer at the start of each frame and never mutated while a
// frame is evaluated.
type Params struct {
	Kind    Kind
	MaxIter int

	// Seed is the constant c of the Julia kinds.
	Seed complex128

	// EscapeRadius is the threshold R of the escape test.
	EscapeRadius float64
	EscapeTest   EscapeTest

	Normalization Normalization
	// Custom is used when Normalization is NormCustom.
	Custom NormalizeFunc

	ColorMode ColorMode

	// Lyapunov settings. The sequence selects Re(c) ('A') or Im(c) ('B')
	// as the growth rate of each step.
	LyapunovSequence string
	LyapunovWarmup   int
	LyapunovX0       float64

	// FoldLastIteration reports escapes at maxIter-1 as interior points,
	// matching older renders.
	FoldLastIteration bool
}

// DefaultParams returns the parameters the explorers start with.
func DefaultParams(k Kind) Params {
	p := Params{
		Kind:          k,
		MaxIter:       42,
		EscapeRadius:  2,
		EscapeTest:    EscapeModulus,
		Normalization: NormFlat,
		ColorMode:     ColorGrayscale,
	}
	switch k {
	case Julia:
		p.MaxIter = 32
		p.Seed = JuliaSeeds[1]
		p.EscapeRadius = 1e150
		p.EscapeTest = EscapeChebyshev
	case BurningJulia:
		p.Seed = BurningJuliaSeeds[0]
		p.EscapeRadius = 512
		p.Normalization = NormSmooth
	case MarkusLyapunov:
		p.MaxIter = 100
		p.ColorMode = ColorLyapunov
		p.LyapunovSequence = "AB"
		p.LyapunovWarmup = 50
		p.LyapunovX0 = 0.5
	}
	return p
}

// DefaultView returns the center and radius the explorers open with.
func DefaultView(k Kind) (center complex128, radius float64) {
	switch k {
	case Mandelbrot:
		return complex(-0.8, 0), 1.3
	case BurningShip:
		return complex(-0.5, -0.5), 1.5
	case MarkusLyapunov:
		return complex(2, 2), 2
	}
	return 0, 3
}

// Validate reports malformed parameters. The error wraps ErrInvalidParams.
func (p Params) Validate() error {
	if p.Kind < Mandelbrot || p.Kind > MarkusLyapunov {
		return fmt.Errorf("%w: kind %v", ErrInvalidParams, p.Kind)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("%w: max_iter %d must be positive", ErrInvalidParams, p.MaxIter)
	}
	if p.ColorMode < ColorGrayscale || p.ColorMode > ColorLyapunov {
		return fmt.Errorf("%w: color mode %v", ErrInvalidParams, p.ColorMode)
	}
	if p.Kind == MarkusLyapunov {
		if p.LyapunovSequence == "" {
			return fmt.Errorf("%w: empty lyapunov sequence", ErrInvalidParams)
		}
		if strings.Trim(p.LyapunovSequence, "AB") != "" {
			return fmt.Errorf("%w: lyapunov sequence %q must only contain A and B", ErrInvalidParams, p.LyapunovSequence)
		}
		if p.LyapunovWarmup < 0 {
			return fmt.Errorf("%w: negative lyapunov warmup", ErrInvalidParams)
		}
		return nil
	}
	if !(p.EscapeRadius > 0) || math.IsInf(p.EscapeRadius, 0) {
		return fmt.Errorf("%w: escape radius %v", ErrInvalidParams, p.EscapeRadius)
	}
	if p.EscapeTest != EscapeModulus && p.EscapeTest != EscapeChebyshev {
		return fmt.Errorf("%w: escape test %v", ErrInvalidParams, p.EscapeTest)
	}
	switch p.Normalization {
	case NormFlat:
	case NormSmooth:
		if p.EscapeRadius <= 1 {
			return fmt.Errorf("%w: smooth normalization needs escape radius > 1", ErrInvalidParams)
		}
	case NormCustom:
		if p.Custom == nil {
			return fmt.Errorf("%w: custom normalization without function", ErrInvalidParams)
		}
	default:
		return fmt.Errorf("%w: normalization %v", ErrInvalidParams, p.Normalization)
	}
	return nil
}
