package animation

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestLinspace(t *testing.T) {
	got := Linspace(-1, 1, 5)
	want := []float64{-1, -0.5, 0, 0.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Linspace()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("Linspace(n=0) should be nil")
	}
	if got := Linspace(3, 7, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("Linspace(n=1) = %v, want [3]", got)
	}
}

func TestLogspace(t *testing.T) {
	got := Logspace(1, 1000, 4)
	want := []float64{1, 10, 100, 1000}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9*want[i] {
			t.Errorf("Logspace()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// Endpoints are exact.
	zoom := Logspace(0.0225508404546, 1.27278655952e-05, 80)
	if zoom[0] != 0.0225508404546 || zoom[79] != 1.27278655952e-05 {
		t.Errorf("endpoints = %v, %v", zoom[0], zoom[79])
	}
	for i := 1; i < len(zoom); i++ {
		if zoom[i] >= zoom[i-1] {
			t.Fatalf("Logspace() not decreasing at %d", i)
		}
	}
}

func TestGeomspace(t *testing.T) {
	got := Geomspace(1, -1+0i, 3)
	// Halfway along the principal log from 0 to iπ.
	if cmplx.Abs(got[1]-1i) > 1e-12 {
		t.Errorf("Geomspace()[1] = %v, want i", got[1])
	}
	if got[0] != 1 || got[2] != -1 {
		t.Errorf("endpoints = %v, %v", got[0], got[2])
	}

	ratio := Geomspace(2+2i, 32+32i, 5)
	for i := 1; i < len(ratio); i++ {
		if q := ratio[i] / ratio[i-1]; cmplx.Abs(q-2) > 1e-12 {
			t.Errorf("ratio %d = %v, want 2", i, q)
		}
	}
}
