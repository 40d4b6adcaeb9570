package fractal

import "math"

// lyapunovBase is the logarithm base of the accumulated exponent.
var lyapunovBase = math.Log(1.23)

// Lyapunov returns the Markus-Lyapunov exponent at c.
//
// The logistic map x = r*x*(1-x) is forced by the sequence: step i uses
// Re(c) when p.LyapunovSequence[i%len] is 'A' and Im(c) otherwise. After
// p.LyapunovWarmup steps from p.LyapunovX0 the exponent accumulates
// log|r-2rx| over p.MaxIter steps. A zero derivative or an overflowing
// orbit stops the accumulation early; the partial sum is still divided by
// p.MaxIter.
//
// When the orbit overflows during warm-up the exponent is 0. A zero or
// infinite sum also gives 0.
func Lyapunov(c complex128, p Params) float64 {
	seq := p.LyapunovSequence
	if seq == "" {
		return 0
	}
	ra, rb := real(c), imag(c)
	rate := func(i int) float64 {
		if seq[i%len(seq)] == 'A' {
			return ra
		}
		return rb
	}

	x := p.LyapunovX0
	for i := 0; i < p.LyapunovWarmup; i++ {
		x = rate(i) * x * (1 - x)
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return 0
		}
	}

	total := 0.0
	for i := 0; i < p.MaxIter; i++ {
		r := rate(i)
		x = r * x * (1 - x)
		if math.IsInf(x, 0) || math.IsNaN(x) {
			break
		}
		v := math.Abs(r - 2*r*x)
		if v == 0 {
			break
		}
		total += math.Log(v) / lyapunovBase
	}

	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return 0
	}
	return total / float64(p.MaxIter)
}
