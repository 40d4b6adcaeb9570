package fractal

import "math"

// phi is the golden ratio.
var phi = (1 + math.Sqrt(5)) / 2

// JuliaSeeds are the seeds browsed by the Julia explorer. The first one
// is a dust; the others give connected sets.
var JuliaSeeds = []complex128{
	complex(phi, phi),
	complex(-0.15, 0.95),
	complex(-0.64, 0.70),
	complex(-0.64, 0.50),
	complex(0.47, -0.24),
	complex(-0.77, -0.15),
	complex(-1.38, -0.09),
	complex(-1.17, 0.18),
	complex(-0.08, 0.70),
	complex(-0.11, 1.00),
	complex(0.282, 0.48),
}

// BurningJuliaSeeds are constants giving interesting Burning-Julia sets.
var BurningJuliaSeeds = []complex128{
	complex(-1.15, -0.4),
	complex(-1, -1),
	complex(-0.75, -0.9),
	complex(0, -1),
	complex(0.675, -1.15),
	complex(0.87, -1.52),
	complex(0.975, -1.175),
	complex(0.29, -0.29),
	complex(0.425, 0.25),
	complex(0, 0.297),
	complex(-0.8, 0.1),
}

// Landmark is a named Mandelbrot view.
type Landmark struct {
	Name   string
	Center complex128
	Radius float64
}

// MandelbrotLandmarks are classic places to zoom into.
var MandelbrotLandmarks = []Landmark{
	{"overview", complex(-0.8, 0), 1.3},
	{"seahorse-valley", complex(-0.743643887037151, 0.131825904205330), 0.01},
	{"elephant-valley", complex(0.2925, 0.0149), 0.005},
	{"triple-spiral", complex(-0.088, 0.654), 0.01},
	{"mini-mandelbrot", complex(-1.7497, 0), 0.0012},
	{"double-scepter", complex(-0.1528, 1.0397), 0.005},
}

// FindLandmark returns a landmark by name.
func FindLandmark(name string) (Landmark, bool) {
	for _, l := range MandelbrotLandmarks {
		if l.Name == name {
			return l, true
		}
	}
	return Landmark{}, false
}
