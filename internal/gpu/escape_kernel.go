//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const (
	// paramsSize is the size of the Params uniform in escapeShaderWGSL.
	paramsSize = 48
	// resultSize is the size of one Result in escapeShaderWGSL.
	resultSize = 8
	// pointSize is the size of one vec2<f32> point.
	pointSize = 8

	// maxRadius bounds the escape radius served on the device. Beyond it
	// the squared radius and the last iterate overflow float32.
	maxRadius = 1e18

	// minRelativeStep is the smallest point spacing, relative to the
	// largest coordinate, that float32 still resolves into distinct points.
	minRelativeStep = 1.0 / (1 << 20)

	// fenceTimeout bounds the wait for one frame.
	fenceTimeout = 5 * time.Second
)

// Kind bits of the Params uniform.
const (
	kindJulia   uint32 = 1 << 0
	kindBurning uint32 = 1 << 1
)

// EscapeKernel evaluates escape-time fractals with a wgpu/hal compute
// shader. It implements fractal.ComputeBackend.
//
// The kernel iterates in float32 and returns the raw escape iteration and
// modulus of every point; normalization runs on the CPU through
// fractal.Resolver so both backends share the same formulas.
// Requests float32 cannot serve return fractal.ErrFallbackToCPU.
type EscapeKernel struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	adapterName    string
	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var (
	_ fractal.ComputeBackend = (*EscapeKernel)(nil)
	_ fractal.Availability   = (*EscapeKernel)(nil)
)

// errFenceTimeout is returned when the dispatch does not complete within
// fenceTimeout.
var errFenceTimeout = errors.New("gpu: fence timeout")

// waitError turns the result of a fence wait into a dispatch error.
func waitError(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for GPU: %w after %v", errFenceTimeout, fenceTimeout)
	}
	return nil
}

// Name implements fractal.ComputeBackend.
func (k *EscapeKernel) Name() string { return "vulkan" }

// CanEvaluate reports whether the kernel implements the kind. The
// Markus-Lyapunov exponent is CPU only.
func (k *EscapeKernel) CanEvaluate(kind fractal.Kind) bool {
	return kind != fractal.MarkusLyapunov
}

// SetLogger sets the logger used by the kernel.
func (k *EscapeKernel) SetLogger(l *slog.Logger) { setLogger(l) }

// Available reports whether the device and pipeline are ready.
func (k *EscapeKernel) Available() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.gpuReady
}

// AdapterName returns the name of the selected adapter, or "" for a shared
// or missing device.
func (k *EscapeKernel) AdapterName() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.adapterName
}

// Init acquires a device and builds the pipeline. A missing GPU is not an
// error: it is logged and Available reports false.
func (k *EscapeKernel) Init() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.gpuReady {
		return nil
	}
	if err := k.initGPU(); err != nil {
		slogger().Warn("gpu: init failed, using CPU evaluation", "err", err)
	}
	return nil
}

// Close releases the pipeline and, unless shared, the device.
func (k *EscapeKernel) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.destroyPipeline()
	if !k.externalDevice {
		if k.device != nil {
			k.device.Destroy()
		}
		if k.instance != nil {
			k.instance.Destroy()
		}
	}
	k.device = nil
	k.instance = nil
	k.queue = nil
	k.gpuReady = false
	k.externalDevice = false
	k.adapterName = ""
}

// SetDeviceProvider switches the kernel to a shared device. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue.
func (k *EscapeKernel) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.destroyPipeline()
	if !k.externalDevice && k.device != nil {
		k.device.Destroy()
	}
	if k.instance != nil {
		k.instance.Destroy()
		k.instance = nil
	}

	k.device = device
	k.queue = queue
	k.externalDevice = true
	k.adapterName = ""

	if err := k.createPipeline(); err != nil {
		k.gpuReady = false
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	k.gpuReady = true
	slogger().Info("gpu: switched to shared device")
	return nil
}

// Evaluate implements fractal.ComputeBackend.
func (k *EscapeKernel) Evaluate(points []complex128, p fractal.Params) ([]fractal.Sample, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !k.CanEvaluate(p.Kind) || !servable(points, p) {
		return nil, fractal.ErrFallbackToCPU
	}
	if len(points) == 0 {
		return []fractal.Sample{}, nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.gpuReady {
		return nil, fractal.ErrFallbackToCPU
	}

	start := time.Now()
	raw, err := k.dispatch(points, p)
	if err != nil {
		return nil, err
	}
	samples := resolveResults(raw, len(points), p)
	slogger().Debug("gpu: frame evaluated", "points", len(points), "elapsed", time.Since(start))
	return samples, nil
}

// servable reports whether a float32 evaluation of the frame matches the
// float64 one closely enough to be displayed.
func servable(points []complex128, p fractal.Params) bool {
	if p.EscapeRadius > maxRadius {
		return false
	}
	if p.Kind.IsJulia() && (math.Abs(real(p.Seed)) > math.MaxFloat32 || math.Abs(imag(p.Seed)) > math.MaxFloat32) {
		return false
	}
	return float32Resolves(points)
}

// float32Resolves estimates the point spacing from the frame bounds and
// reports whether float32 keeps neighbouring points apart.
func float32Resolves(points []complex128) bool {
	if len(points) < 2 {
		return true
	}
	minRe, maxRe := real(points[0]), real(points[0])
	minIm, maxIm := imag(points[0]), imag(points[0])
	for _, c := range points[1:] {
		minRe = min(minRe, real(c))
		maxRe = max(maxRe, real(c))
		minIm = min(minIm, imag(c))
		maxIm = max(maxIm, imag(c))
	}
	magnitude := max(math.Abs(minRe), math.Abs(maxRe), math.Abs(minIm), math.Abs(maxIm))
	if magnitude > math.MaxFloat32 {
		return false
	}
	span := max(maxRe-minRe, maxIm-minIm)
	if span == 0 || magnitude == 0 {
		return true
	}
	step := span / math.Sqrt(float64(len(points)))
	return step >= magnitude*minRelativeStep
}

// kindBits encodes the kind for the shader.
func kindBits(kind fractal.Kind) uint32 {
	var bits uint32
	if kind.IsJulia() {
		bits |= kindJulia
	}
	if kind == fractal.BurningShip || kind == fractal.BurningJulia {
		bits |= kindBurning
	}
	return bits
}

// packParams serializes the Params uniform.
func packParams(n int, p fractal.Params, stride uint32) []byte {
	buf := make([]byte, paramsSize)
	var escapeTest uint32
	if p.EscapeTest == fractal.EscapeChebyshev {
		escapeTest = 1
	}
	radius := float32(p.EscapeRadius)
	//nolint:gosec // G115: point count and max_iter are positive and fit uint32
	binary.LittleEndian.PutUint32(buf[0:], uint32(n))
	//nolint:gosec // G115: validated positive
	binary.LittleEndian.PutUint32(buf[4:], uint32(p.MaxIter))
	binary.LittleEndian.PutUint32(buf[8:], kindBits(p.Kind))
	binary.LittleEndian.PutUint32(buf[12:], escapeTest)
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(float32(real(p.Seed))))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(float32(imag(p.Seed))))
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(radius))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(radius*radius))
	binary.LittleEndian.PutUint32(buf[32:], stride)
	return buf
}

// packPoints serializes points as vec2<f32>.
func packPoints(points []complex128) []byte {
	buf := make([]byte, len(points)*pointSize)
	for i, c := range points {
		binary.LittleEndian.PutUint32(buf[i*pointSize:], math.Float32bits(float32(real(c))))
		binary.LittleEndian.PutUint32(buf[i*pointSize+4:], math.Float32bits(float32(imag(c))))
	}
	return buf
}

// resolveResults turns the Result array read back from the device into
// normalized samples.
func resolveResults(raw []byte, n int, p fractal.Params) []fractal.Sample {
	r := fractal.NewResolver(p)
	out := make([]fractal.Sample, n)
	for i := range out {
		iter := binary.LittleEndian.Uint32(raw[i*resultSize:])
		modulus := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*resultSize+4:]))
		out[i] = r.Resolve(int(iter), float64(modulus))
	}
	return out
}

// dispatch runs the kernel over points and returns the raw Result array.
func (k *EscapeKernel) dispatch(points []complex128, p fractal.Params) ([]byte, error) {
	n := len(points)
	gx, gy, stride := dispatchSize(n)
	pointBytes := packPoints(points)
	paramBytes := packParams(n, p, stride)
	resultsSize := uint64(n * resultSize)

	uniformBuf, err := k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	defer k.device.DestroyBuffer(uniformBuf)

	pointsBuf, err := k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_points", Size: uint64(len(pointBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create points buffer: %w", err)
	}
	defer k.device.DestroyBuffer(pointsBuf)

	resultsBuf, err := k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_results", Size: resultsSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create results buffer: %w", err)
	}
	defer k.device.DestroyBuffer(resultsBuf)

	stagingBuf, err := k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_staging", Size: resultsSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer k.device.DestroyBuffer(stagingBuf)

	k.queue.WriteBuffer(uniformBuf, 0, paramBytes)
	k.queue.WriteBuffer(pointsBuf, 0, pointBytes)

	bg, err := k.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "escape_bind", Layout: k.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: pointsBuf.NativeHandle(), Offset: 0, Size: uint64(len(pointBytes))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: resultsBuf.NativeHandle(), Offset: 0, Size: resultsSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer k.device.DestroyBindGroup(bg)

	encoder, err := k.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "escape_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("escape"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "escape_pass"})
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(gx, gy, 1)
	pass.End()
	encoder.CopyBufferToBuffer(resultsBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: resultsSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer k.device.FreeCommandBuffer(cmdBuf)

	fence, err := k.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer k.device.DestroyFence(fence)
	if err := k.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := waitError(k.device.Wait(fence, 1, fenceTimeout)); err != nil {
		return nil, err
	}

	readback := make([]byte, resultsSize)
	if err := k.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}

func (k *EscapeKernel) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	k.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	k.device = openDev.Device
	k.queue = openDev.Queue
	if err := k.createPipeline(); err != nil {
		k.device.Destroy()
		k.device = nil
		k.queue = nil
		return fmt.Errorf("create pipeline: %w", err)
	}
	k.gpuReady = true
	k.adapterName = selected.Info.Name
	slogger().Info("gpu: escape kernel initialized", "adapter", selected.Info.Name)
	return nil
}

func (k *EscapeKernel) createPipeline() error {
	code, err := compileEscapeShader()
	if err != nil {
		return err
	}
	shader, err := k.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "escape",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create escape shader module: %w", err)
	}
	k.shader = shader

	bindLayout, err := k.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "escape_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create escape bind group layout: %w", err)
	}
	k.bindLayout = bindLayout

	pipeLayout, err := k.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "escape_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create escape pipeline layout: %w", err)
	}
	k.pipeLayout = pipeLayout

	pipeline, err := k.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "escape_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create escape compute pipeline: %w", err)
	}
	k.pipeline = pipeline
	return nil
}

func (k *EscapeKernel) destroyPipeline() {
	if k.device == nil {
		return
	}
	if k.pipeline != nil {
		k.device.DestroyComputePipeline(k.pipeline)
		k.pipeline = nil
	}
	if k.pipeLayout != nil {
		k.device.DestroyPipelineLayout(k.pipeLayout)
		k.pipeLayout = nil
	}
	if k.bindLayout != nil {
		k.device.DestroyBindGroupLayout(k.bindLayout)
		k.bindLayout = nil
	}
	if k.shader != nil {
		k.device.DestroyShaderModule(k.shader)
		k.shader = nil
	}
}
