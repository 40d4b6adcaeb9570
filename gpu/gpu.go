//go:build !nogpu

// Package gpu provides the GPU compute backend for fractal renderers.
//
// The backend evaluates the Mandelbrot, Julia and Burning Ship kinds with a
// wgpu/hal compute shader. If no device is available (no Vulkan driver,
// headless CI), the backend reports itself unavailable and the renderer
// evaluates on the CPU.
//
// Usage:
//
//	r, err := fractal.NewRenderer(800, 800, -0.8, 1.3, p,
//	    fractal.WithBackend(gpu.New()))
//
// Build with -tags nogpu to compile the package without wgpu.
package gpu

import (
	"github.com/gogpu/gpucontext"

	gpuimpl "github.com/gogpu/fractal/internal/gpu"
)

// Backend is a fractal.ComputeBackend running on the GPU.
type Backend struct {
	*gpuimpl.EscapeKernel
}

// New returns a GPU backend. The device is acquired by Init, which the
// renderer calls.
func New() *Backend {
	return &Backend{EscapeKernel: &gpuimpl.EscapeKernel{}}
}

// SetDeviceProvider makes the backend share the device of an external
// provider (e.g., a gogpu window) instead of creating its own.
//
// The provider must also expose HalDevice() and HalQueue() returning the
// wgpu/hal device and queue.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return b.EscapeKernel.SetDeviceProvider(provider)
}
