package fractal

import (
	"math"
	"testing"
)

func TestJuliaSeeds_FirstIsGolden(t *testing.T) {
	phi := (1 + math.Sqrt(5)) / 2
	if JuliaSeeds[0] != complex(phi, phi) {
		t.Errorf("JuliaSeeds[0] = %v, want (phi+phi i)", JuliaSeeds[0])
	}
}

func TestBurningJuliaSeeds_Unique(t *testing.T) {
	seen := make(map[complex128]bool)
	for _, s := range BurningJuliaSeeds {
		if seen[s] {
			t.Errorf("duplicate seed %v", s)
		}
		seen[s] = true
	}
}

func TestFindLandmark(t *testing.T) {
	for _, want := range MandelbrotLandmarks {
		got, ok := FindLandmark(want.Name)
		if !ok || got != want {
			t.Errorf("FindLandmark(%q) = %+v, %v", want.Name, got, ok)
		}
		if want.Radius <= 0 {
			t.Errorf("landmark %q has radius %v", want.Name, want.Radius)
		}
	}
	if _, ok := FindLandmark("atlantis"); ok {
		t.Error("FindLandmark(atlantis) = true, want false")
	}
}

// The seahorse valley lies on the set boundary: the view holds both
// interior and escaping points.
func TestLandmark_SeahorseBoundary(t *testing.T) {
	lm, _ := FindLandmark("seahorse-valley")
	v, err := NewViewport(lm.Center, lm.Radius, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultParams(Mandelbrot)
	p.MaxIter = 500

	var interior, escaped int
	for _, s := range Evaluate(v.Points(), p) {
		if s.Interior() {
			interior++
		} else {
			escaped++
		}
	}
	if interior == 0 || escaped == 0 {
		t.Errorf("interior = %d, escaped = %d, want both", interior, escaped)
	}
}
