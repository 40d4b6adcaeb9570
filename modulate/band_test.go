package modulate

import (
	"math"
	"testing"
)

func TestParseBandMode(t *testing.T) {
	for _, m := range []BandMode{BandMax, BandAvg, BandMean, BandHigh} {
		got, err := ParseBandMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseBandMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseBandMode("loudest"); err == nil {
		t.Error("ParseBandMode(loudest) should fail")
	}
}

func TestBand_Modes(t *testing.T) {
	freq := []float64{0.9, 0.1, 0.2, 0.8, 0.3, 0.5, 0.0, 0.0}
	tests := []struct {
		name string
		lo   int
		hi   int
		mode BandMode
		want float64
	}{
		{"max", 1, 5, BandMax, 2.0 / 4},
		{"avg", 1, 5, BandAvg, (0.1 + 0.2 + 0.8 + 0.3) / 4},
		{"mean", 1, 5, BandMean, (0.1 + 0.2 + 0.8 + 0.3) / 4},
		{"high", 0, 8, BandHigh, 5.0 / 8},
		{"silent band", 6, 8, BandMax, 0},
		{"out of range", 10, 12, BandAvg, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBand(tt.lo, tt.hi, tt.mode)
			if got := b.Update(freq); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Update() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBand_HighHoldsPrevious(t *testing.T) {
	b := NewBand(0, 4, BandHigh)
	b.Decay = 1
	if got := b.Update([]float64{0, 0, 0.7, 0}); got != 0.5 {
		t.Fatalf("Update() = %v, want 0.5", got)
	}
	if got := b.Update([]float64{0.1, 0.1, 0.1, 0.1}); got != 0.5 {
		t.Errorf("Update() below threshold = %v, want held 0.5", got)
	}
}

func TestBand_Decay(t *testing.T) {
	b := NewBand(0, 2, BandAvg)
	b.Decay = 4
	if got := b.Update([]float64{1, 1}); got != 1 {
		t.Fatalf("rising Update() = %v, want 1", got)
	}
	// Falls by a quarter of the distance per update.
	if got := b.Update([]float64{0, 0}); got != 0.75 {
		t.Errorf("Update() = %v, want 0.75", got)
	}
	if got := b.Update([]float64{0, 0}); got != 0.5625 {
		t.Errorf("Update() = %v, want 0.5625", got)
	}
	if b.Value() != 0.5625 {
		t.Errorf("Value() = %v, want 0.5625", b.Value())
	}
	b.Reset()
	if b.Value() != 0 {
		t.Errorf("Value() after Reset = %v, want 0", b.Value())
	}
}
