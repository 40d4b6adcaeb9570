package modulate

import "fmt"

// BandMode selects how a spectrum band is reduced to a scalar.
type BandMode int

const (
	// BandMax reports the position of the strongest bin, in [0, 1).
	BandMax BandMode = iota
	// BandAvg reports the average bin value.
	BandAvg
	// BandMean is BandAvg.
	BandMean
	// BandHigh reports the position of the last bin above the threshold,
	// holding the previous value when no bin crosses it.
	BandHigh
)

var bandModeNames = [...]string{"max", "avg", "mean", "high"}

func (m BandMode) String() string {
	if m >= 0 && int(m) < len(bandModeNames) {
		return bandModeNames[m]
	}
	return fmt.Sprintf("BandMode(%d)", int(m))
}

// ParseBandMode resolves a mode name.
func ParseBandMode(s string) (BandMode, error) {
	for i, name := range bandModeNames {
		if s == name {
			return BandMode(i), nil
		}
	}
	return 0, fmt.Errorf("modulate: unknown band mode %q", s)
}

// Defaults of NewBand.
const (
	DefaultDecay     = 20.0
	DefaultThreshold = 0.4
)

// Band reduces bins [Lo, Hi) of a spectrum to a scalar.
//
// Rising values are reported immediately; falling values decay towards the
// new value by 1/Decay of the difference per update.
type Band struct {
	Lo, Hi    int
	Mode      BandMode
	Decay     float64
	Threshold float64

	prev float64
}

// NewBand returns a band modulator with the default decay and threshold.
func NewBand(lo, hi int, mode BandMode) *Band {
	return &Band{
		Lo:        lo,
		Hi:        hi,
		Mode:      mode,
		Decay:     DefaultDecay,
		Threshold: DefaultThreshold,
	}
}

// Value returns the last reported value.
func (b *Band) Value() float64 { return b.prev }

// Reset clears the decay state.
func (b *Band) Reset() { b.prev = 0 }

// Update computes the band value of freq and records it for decay.
func (b *Band) Update(freq []float64) float64 {
	v := b.raw(freq)
	if b.prev > v && b.Decay > 1 {
		v = b.prev - (b.prev-v)/b.Decay
	}
	b.prev = v
	return v
}

func (b *Band) raw(freq []float64) float64 {
	lo := max(b.Lo, 0)
	hi := min(b.Hi, len(freq))
	if lo >= hi {
		return 0
	}
	band := freq[lo:hi]
	n := float64(len(band))

	if b.Mode == BandHigh {
		for i := len(band) - 1; i >= 0; i-- {
			if band[i] > b.Threshold {
				return float64(i) / float64(b.Hi-b.Lo)
			}
		}
		return b.prev
	}

	var sum float64
	argmax := 0
	for i, v := range band {
		sum += v
		if v > band[argmax] {
			argmax = i
		}
	}
	if sum == 0 {
		return 0
	}
	switch b.Mode {
	case BandAvg, BandMean:
		return sum / n
	default:
		return float64(argmax) / n
	}
}
