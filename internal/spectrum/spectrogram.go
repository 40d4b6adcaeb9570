// Package spectrum computes short-time power spectra of audio frames for
// parameter modulation.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Clipping range of the dB spectrum. The clipped value is scaled by
// 1/dbScale and shifted by -dbMin/dbScale so that dbMin maps to 0.
const (
	dbMin   = -40.0
	dbMax   = 200.0
	dbScale = 196.0
)

// ErrFrameSize is returned for a buffer whose length differs from the
// spectrogram frame size.
var ErrFrameSize = errors.New("spectrum: buffer length differs from frame size")

// Spectrogram transforms fixed-size frames of interleaved channel samples
// into a normalized power spectrum of FrameSize/2 bins.
//
// A Spectrogram is not safe for concurrent use; Transform reuses its
// buffers.
type Spectrogram struct {
	frameSize int
	window    []float64
	padded    []float64
	mono      []float64
	freq      []float64
}

// New returns a spectrogram for frames of frameSize samples.
func New(frameSize int) (*Spectrogram, error) {
	if frameSize < 2 {
		return nil, fmt.Errorf("spectrum: frame size %d must be at least 2", frameSize)
	}
	return &Spectrogram{
		frameSize: frameSize,
		window:    window.Hann(frameSize),
		padded:    make([]float64, 2*frameSize),
		mono:      make([]float64, frameSize),
		freq:      make([]float64, frameSize/2),
	}, nil
}

// FrameSize returns the number of samples per frame.
func (s *Spectrogram) FrameSize() int { return s.frameSize }

// Transform computes the spectrum of buf, where buf[i] holds the channel
// samples of sample i. The channels are averaged to mono, Hann windowed and
// zero padded to twice the frame size before the FFT.
//
// The result holds FrameSize/2 bins. For a frame with signal each bin is
// 20·log10 of the power, clipped to [-40, 200], divided by 196 and shifted
// so that -40 dB maps to 0. A silent frame keeps the raw power, all zeros.
// The returned slice is owned by the spectrogram and valid until the next
// call.
func (s *Spectrogram) Transform(buf [][]float64) ([]float64, error) {
	if len(buf) != s.frameSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFrameSize, len(buf), s.frameSize)
	}

	silent := true
	for i, channels := range buf {
		var sum float64
		for _, v := range channels {
			sum += v
		}
		if len(channels) > 0 {
			sum /= float64(len(channels))
		}
		s.mono[i] = sum
		if sum != 0 {
			silent = false
		}
	}

	for i, v := range s.mono {
		s.padded[i] = v * s.window[i]
	}
	for i := s.frameSize; i < len(s.padded); i++ {
		s.padded[i] = 0
	}

	spec := fft.FFTReal(s.padded)
	n := float64(s.frameSize)
	for i := range s.freq {
		re, im := real(spec[i])/n, imag(spec[i])/n
		power := re*re + im*im
		if silent {
			s.freq[i] = power
			continue
		}
		db := 20 * math.Log10(power)
		s.freq[i] = clamp(db, dbMin, dbMax)/dbScale - dbMin/dbScale
	}
	return s.freq, nil
}

// Band returns bins [lo, hi) of the last transform, clamped to the
// available bins.
func (s *Spectrogram) Band(lo, hi int) []float64 {
	lo = max(lo, 0)
	hi = min(hi, len(s.freq))
	if lo >= hi {
		return nil
	}
	return s.freq[lo:hi]
}

// Deinterleave splits interleaved samples with the given channel count into frames
// suitable for Transform.
func Deinterleave(samples []float64, channels int) [][]float64 {
	if channels <= 0 {
		return nil
	}
	frames := make([][]float64, len(samples)/channels)
	for i := range frames {
		frames[i] = samples[i*channels : (i+1)*channels]
	}
	return frames
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
