package spectrum

import (
	"errors"
	"math"
	"testing"
)

func sineFrame(n, cycles, channels int) [][]float64 {
	buf := make([][]float64, n)
	for i := range buf {
		v := math.Sin(2 * math.Pi * float64(cycles*i) / float64(n))
		buf[i] = make([]float64, channels)
		for c := range buf[i] {
			buf[i][c] = v
		}
	}
	return buf
}

func TestNew_RejectsTinyFrames(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := New(n); err == nil {
			t.Errorf("New(%d) error = nil, want error", n)
		}
	}
}

func TestTransform_FrameSize(t *testing.T) {
	s, err := New(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Transform(make([][]float64, 32)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("Transform() error = %v, want ErrFrameSize", err)
	}
}

func TestTransform_Silence(t *testing.T) {
	s, err := New(128)
	if err != nil {
		t.Fatal(err)
	}
	freq, err := s.Transform(sineFrame(128, 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(freq) != 64 {
		t.Fatalf("len = %d, want 64", len(freq))
	}
	for i, v := range freq {
		if v != 0 {
			t.Fatalf("bin %d = %v, want 0 for silence", i, v)
		}
	}
}

func TestTransform_SinePeak(t *testing.T) {
	const n, cycles = 256, 16
	s, err := New(n)
	if err != nil {
		t.Fatal(err)
	}
	freq, err := s.Transform(sineFrame(n, cycles, 2))
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for i, v := range freq {
		if v > freq[peak] {
			peak = i
		}
		if v < 0 || v > (dbMax-dbMin)/dbScale+1e-12 {
			t.Errorf("bin %d = %v out of normalized range", i, v)
		}
	}
	// Zero padding doubles the resolution.
	if peak != 2*cycles {
		t.Errorf("peak bin = %d, want %d", peak, 2*cycles)
	}
}

func TestTransform_ChannelsAveraged(t *testing.T) {
	const n = 64
	s, err := New(n)
	if err != nil {
		t.Fatal(err)
	}
	// Opposite channels cancel out to silence.
	buf := sineFrame(n, 4, 2)
	for i := range buf {
		buf[i][1] = -buf[i][0]
	}
	freq, err := s.Transform(buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range freq {
		if v != 0 {
			t.Fatalf("bin %d = %v, want 0", i, v)
		}
	}
}

func TestBand(t *testing.T) {
	s, err := New(32)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Transform(sineFrame(32, 2, 1)); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		lo, hi, want int
	}{
		{0, 4, 4},
		{10, 100, 6},
		{-5, 2, 2},
		{8, 8, 0},
		{20, 30, 0},
	}
	for _, tt := range tests {
		if got := len(s.Band(tt.lo, tt.hi)); got != tt.want {
			t.Errorf("len(Band(%d, %d)) = %d, want %d", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestDeinterleave(t *testing.T) {
	frames := Deinterleave([]float64{1, 2, 3, 4, 5, 6, 7}, 2)
	if len(frames) != 3 {
		t.Fatalf("len = %d, want 3", len(frames))
	}
	if frames[2][0] != 5 || frames[2][1] != 6 {
		t.Errorf("frame 2 = %v, want [5 6]", frames[2])
	}
	if Deinterleave([]float64{1}, 0) != nil {
		t.Error("Deinterleave with 0 channels should return nil")
	}
}
