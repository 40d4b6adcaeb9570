package animation

import (
	"math"
	"math/cmplx"
)

// Linspace returns n values spaced evenly from a to b, both included.
func Linspace(a, b float64, n int) []float64 {
	return spaced(n, func(t float64) float64 { return a + (b-a)*t })
}

// Logspace returns n values from a to b, both included, spaced evenly on a
// log scale. a and b must be positive.
func Logspace(a, b float64, n int) []float64 {
	la, lb := math.Log(a), math.Log(b)
	out := spaced(n, func(t float64) float64 { return math.Exp(la + (lb-la)*t) })
	if n > 1 {
		out[0], out[n-1] = a, b
	}
	return out
}

// Geomspace returns n complex values from a to b, both included, in
// geometric progression along the principal logarithm.
func Geomspace(a, b complex128, n int) []complex128 {
	if n <= 0 {
		return nil
	}
	la, lb := cmplx.Log(a), cmplx.Log(b)
	out := make([]complex128, n)
	for i := range out {
		out[i] = cmplx.Exp(la + (lb-la)*complex(fraction(i, n), 0))
	}
	out[0] = a
	if n > 1 {
		out[n-1] = b
	}
	return out
}

func spaced(n int, f func(t float64) float64) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = f(fraction(i, n))
	}
	return out
}

func fraction(i, n int) float64 {
	if n == 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
