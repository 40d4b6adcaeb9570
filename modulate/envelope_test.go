package modulate

import "testing"

func TestEnvelope_PeakHold(t *testing.T) {
	e := NewEnvelope([]float64{0, 1, 0, 0, 0.9}, 2)
	want := []float64{0, 1, 0.5, 0.25, 0.9}
	if e.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", e.Len(), len(want))
	}
	for i, w := range want {
		if got := e.At(i); got != w {
			t.Errorf("At(%d) = %v, want %v", i, got, w)
		}
	}
	if e.At(-1) != 0 || e.At(5) != 0 {
		t.Error("At() outside the series should be 0")
	}
}

func TestEnvelope_NoHold(t *testing.T) {
	for _, delay := range []float64{0, 0.5, 1} {
		e := NewEnvelope([]float64{1, 0.2, 0.7}, delay)
		for i, want := range []float64{1, 0.2, 0.7} {
			if got := e.At(i); got != want {
				t.Errorf("delay %v: At(%d) = %v, want %v", delay, i, got, want)
			}
		}
	}
}

func TestAmplitudes(t *testing.T) {
	samples := []float64{0.1, -0.5, 0.2, 0.3, -0.9, 0.4, 0.05}
	// step = 7/3+1 = 3
	got := Amplitudes(samples, 3)
	want := []float64{0.5, 0.9, 0.05}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
	if Amplitudes(nil, 3) != nil || Amplitudes(samples, 0) != nil {
		t.Error("Amplitudes() of empty input should be nil")
	}
}
