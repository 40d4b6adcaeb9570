package fractal

import "math"

// State is the terminal state of one evaluated point.
type State uint8

const (
	// Active is the state of a point still being iterated. It never appears
	// in a returned Sample.
	Active State = iota
	// Escaped points left the escape radius.
	Escaped
	// MaxIterReached points stayed bounded for MaxIter iterations. They are
	// the set interior.
	MaxIterReached
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Escaped:
		return "escaped"
	case MaxIterReached:
		return "max-iter"
	}
	return "unknown"
}

// Sample is the evaluation result of one point.
//
// For escape-time kinds Iter is the zero-based iteration at which the point
// escaped, Modulus is |z| at that moment and Value is the normalized escape
// value. Interior points have Iter == MaxIter and Value == 0.
//
// For MarkusLyapunov the State is always Escaped and Value holds the
// Lyapunov exponent.
type Sample struct {
	State   State
	Iter    int
	Modulus float64
	Value   float64
}

// Interior reports whether the sample is a set interior point.
func (s Sample) Interior() bool {
	return s.State == MaxIterReached
}

// Evaluate computes one sample per point, in the order of points.
// The caller is expected to have validated p.
func Evaluate(points []complex128, p Params) []Sample {
	out := make([]Sample, len(points))
	EvaluateInto(out, points, p)
	return out
}

// EvaluateInto is Evaluate writing into dst, which must be at least as long
// as points.
func EvaluateInto(dst []Sample, points []complex128, p Params) {
	if p.Kind == MarkusLyapunov {
		for i, c := range points {
			dst[i] = Sample{State: Escaped, Value: Lyapunov(c, p)}
		}
		return
	}
	e := newEscaper(p)
	for i, c := range points {
		dst[i] = e.point(c)
	}
}

// EvaluatePoint computes the sample of a single point.
func EvaluatePoint(c complex128, p Params) Sample {
	if p.Kind == MarkusLyapunov {
		return Sample{State: Escaped, Value: Lyapunov(c, p)}
	}
	e := newEscaper(p)
	return e.point(c)
}

// escaper holds the per-frame constants of the escape loop.
type escaper struct {
	p       Params
	burning bool
	julia   bool
	radius  float64
	radius2 float64
	// smoothBias is log(log(R))/log(2), constant over a frame.
	smoothBias float64
}

func newEscaper(p Params) escaper {
	e := escaper{
		p:       p,
		burning: p.Kind == BurningShip || p.Kind == BurningJulia,
		julia:   p.Kind.IsJulia(),
		radius:  p.EscapeRadius,
		radius2: p.EscapeRadius * p.EscapeRadius,
	}
	if p.Normalization == NormSmooth {
		e.smoothBias = math.Log(math.Log(p.EscapeRadius)) / math.Ln2
	}
	return e
}

func (e *escaper) point(px complex128) Sample {
	var z, c complex128
	if e.julia {
		z, c = px, e.p.Seed
	} else {
		c = px
	}

	for idx := 0; idx < e.p.MaxIter; idx++ {
		if e.burning {
			z = complex(math.Abs(real(z)), math.Abs(imag(z)))
		}
		z = z*z + c

		re, im := real(z), imag(z)
		var out bool
		if e.p.EscapeTest == EscapeChebyshev {
			out = math.Abs(re) > e.radius || math.Abs(im) > e.radius
		} else {
			out = re*re+im*im > e.radius2
		}
		if out {
			return e.resolve(idx, math.Hypot(re, im))
		}
	}
	return Sample{State: MaxIterReached, Iter: e.p.MaxIter}
}

// resolve builds the sample of a point that escaped at idx. An idx of
// MaxIter or more means the point never escaped.
func (e *escaper) resolve(idx int, modulus float64) Sample {
	maxIter := e.p.MaxIter
	if idx >= maxIter || (e.p.FoldLastIteration && idx == maxIter-1) {
		return Sample{State: MaxIterReached, Iter: maxIter}
	}
	return Sample{
		State:   Escaped,
		Iter:    idx,
		Modulus: modulus,
		Value:   e.normalize(idx, modulus),
	}
}

func (e *escaper) normalize(idx int, modulus float64) float64 {
	maxIter := float64(e.p.MaxIter)
	switch e.p.Normalization {
	case NormSmooth:
		return (float64(idx) - math.Log(math.Log(modulus))/math.Ln2 + e.smoothBias) / maxIter
	case NormCustom:
		return e.p.Custom(idx, modulus, e.p.MaxIter)
	}
	return float64(idx) / maxIter
}

// Resolver turns raw escape data, as produced by a GPU kernel, into
// samples normalized like the CPU evaluator does.
type Resolver struct {
	e escaper
}

// NewResolver returns a resolver for p.
func NewResolver(p Params) Resolver {
	return Resolver{e: newEscaper(p)}
}

// Resolve returns the sample of a point that escaped at iteration idx with
// the given modulus. idx >= MaxIter reports an interior point.
func (r Resolver) Resolve(idx int, modulus float64) Sample {
	return r.e.resolve(idx, modulus)
}

// SmoothEscape returns the smooth escape value of an escape at iteration
// idx with the given modulus, for escape radius r.
func SmoothEscape(idx int, modulus, r float64, maxIter int) float64 {
	return (float64(idx) - math.Log(math.Log(modulus))/math.Ln2 + math.Log(math.Log(r))/math.Ln2) / float64(maxIter)
}
