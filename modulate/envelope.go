package modulate

import "math"

// Envelope is a peak-hold envelope over a per-frame amplitude series.
// A new peak is taken immediately; otherwise the envelope falls by
// 1/Delay of its distance to the current amplitude each frame.
type Envelope struct {
	values []float64
}

// NewEnvelope computes the envelope of amplitudes. A delay of 1 or less
// means no hold: the envelope follows the amplitudes.
func NewEnvelope(amplitudes []float64, delay float64) *Envelope {
	values := make([]float64, len(amplitudes))
	var imp float64
	for i, a := range amplitudes {
		if a >= imp || delay <= 1 {
			imp = a
		} else {
			imp -= (imp - a) / delay
		}
		values[i] = imp
	}
	return &Envelope{values: values}
}

// Len returns the number of frames.
func (e *Envelope) Len() int { return len(e.values) }

// At returns the envelope at frame, 0 outside the series.
func (e *Envelope) At(frame int) float64 {
	if frame < 0 || frame >= len(e.values) {
		return 0
	}
	return e.values[frame]
}

// Amplitudes reduces samples to frames peak amplitudes: each frame covers
// len(samples)/frames+1 consecutive samples and reports their maximum
// absolute value.
func Amplitudes(samples []float64, frames int) []float64 {
	if frames <= 0 || len(samples) == 0 {
		return nil
	}
	step := len(samples)/frames + 1
	out := make([]float64, 0, frames)
	for i := 0; i < len(samples); i += step {
		var peak float64
		for _, s := range samples[i:min(i+step, len(samples))] {
			peak = max(peak, math.Abs(s))
		}
		out = append(out, peak)
	}
	return out
}
