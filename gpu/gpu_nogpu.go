//go:build nogpu

// Package gpu provides the GPU compute backend for fractal renderers.
//
// This build has no GPU support: Init fails and the renderer evaluates on
// the CPU.
package gpu

import (
	"errors"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
)

// ErrNoGPU is returned by Init in builds without GPU support.
var ErrNoGPU = errors.New("gpu: built with nogpu tag")

// Backend is a stub that never becomes available.
type Backend struct{}

var _ fractal.ComputeBackend = (*Backend)(nil)

// New returns the stub backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string                  { return "nogpu" }
func (b *Backend) Init() error                   { return ErrNoGPU }
func (b *Backend) Close()                        {}
func (b *Backend) Available() bool               { return false }
func (b *Backend) CanEvaluate(fractal.Kind) bool { return false }

// Evaluate always returns fractal.ErrFallbackToCPU.
func (b *Backend) Evaluate([]complex128, fractal.Params) ([]fractal.Sample, error) {
	return nil, fractal.ErrFallbackToCPU
}

// SetDeviceProvider always returns ErrNoGPU.
func (b *Backend) SetDeviceProvider(gpucontext.DeviceProvider) error { return ErrNoGPU }
