//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// escapeShaderWGSL evaluates one point per invocation. Kind bit 0 selects
// the Julia form and bit 1 the burning fold. Each result holds the escape
// iteration (max_iter when the point stayed bounded) and |z| at escape.
const escapeShaderWGSL = `
struct Params {
    count: u32,
    max_iter: u32,
    kind: u32,
    escape_test: u32,
    seed: vec2<f32>,
    radius: f32,
    radius2: f32,
    stride: u32,
    pad0: u32,
    pad1: u32,
    pad2: u32,
}

struct Result {
    iter: u32,
    modulus: f32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> points: array<vec2<f32>>;
@group(0) @binding(2) var<storage, read_write> results: array<Result>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let i = id.y * params.stride + id.x;
    if (i >= params.count) {
        return;
    }

    var z = vec2<f32>(0.0, 0.0);
    var c = points[i];
    if ((params.kind & 1u) != 0u) {
        z = points[i];
        c = params.seed;
    }
    let burning = (params.kind & 2u) != 0u;

    var res = Result(params.max_iter, 0.0);
    var idx = 0u;
    loop {
        if (idx >= params.max_iter) {
            break;
        }
        if (burning) {
            z = abs(z);
        }
        z = vec2<f32>(z.x * z.x - z.y * z.y, 2.0 * z.x * z.y) + c;

        var escaped = false;
        if (params.escape_test == 1u) {
            escaped = max(abs(z.x), abs(z.y)) > params.radius;
        } else {
            escaped = dot(z, z) > params.radius2;
        }
        if (escaped) {
            res = Result(idx, length(z));
            break;
        }
        idx = idx + 1u;
    }
    results[i] = res;
}
`

// workgroupSize matches @workgroup_size in escapeShaderWGSL.
const workgroupSize = 64

// maxWorkgroupsPerDim is the WebGPU default limit of workgroups per
// dispatch dimension.
const maxWorkgroupsPerDim = 65535

// compileEscapeShader compiles the escape shader to SPIR-V words.
func compileEscapeShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(escapeShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("compile escape shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile escape shader: SPIR-V size %d not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// dispatchSize splits n invocations into a 2D grid of workgroups that
// respects the per-dimension limit. stride is the number of invocations
// per grid row.
func dispatchSize(n int) (x, y, stride uint32) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups == 0 {
		return 0, 0, 0
	}
	gx := min(groups, maxWorkgroupsPerDim)
	gy := (groups + gx - 1) / gx
	//nolint:gosec // G115: bounded by maxWorkgroupsPerDim
	return uint32(gx), uint32(gy), uint32(gx * workgroupSize)
}
