//go:build !nogpu

// Package gpu evaluates escape-time fractals on the GPU.
//
// This is an internal package; the public entry point is the gpu package at
// the module root. It runs a WGSL compute shader, compiled to SPIR-V with
// gogpu/naga, through the gogpu/wgpu hardware abstraction layer (Vulkan).
//
// # Precision
//
// The kernel iterates in float32. It serves the Mandelbrot, Julia and
// Burning Ship kinds while the frame stays within float32 resolution and
// the escape radius fits float32. Other requests return
// fractal.ErrFallbackToCPU and the renderer evaluates them on the CPU.
//
// # Output
//
// Each point yields its escape iteration and |z| at escape. Normalization
// and the interior policy are applied on the CPU by fractal.Resolver, so GPU
// and CPU frames are colored by the same formulas.
package gpu
