package animation

import (
	"fmt"

	"github.com/gogpu/fractal"
)

// centerMoveShift moves the center path away from the origin so that its
// logarithm is well defined.
const centerMoveShift = 10 + 10i

// ZoomOut animates a view from (fromCenter, fromRadius) to (toCenter,
// toRadius) over steps frames. The radius follows a log scale over all
// frames; the center only moves during the last 5% of them.
type ZoomOut struct {
	radius    []float64
	center    []complex128
	moveStart int
}

// NewZoomOut precomputes the view path.
func NewZoomOut(fromCenter complex128, fromRadius float64, toCenter complex128, toRadius float64, steps int) (*ZoomOut, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("animation: zoom needs a positive frame count, got %d", steps)
	}
	if fromRadius <= 0 || toRadius <= 0 {
		return nil, fractal.ErrZeroRadius
	}
	moveStart := steps - 5*steps/100
	return &ZoomOut{
		radius:    Logspace(fromRadius, toRadius, steps),
		center:    shiftedGeomspace(fromCenter, toCenter, steps-moveStart),
		moveStart: moveStart,
	}, nil
}

func shiftedGeomspace(a, b complex128, n int) []complex128 {
	path := Geomspace(a+centerMoveShift, b+centerMoveShift, n)
	for i := range path {
		path[i] -= centerMoveShift
	}
	return path
}

// Len returns the number of frames.
func (z *ZoomOut) Len() int { return len(z.radius) }

// View returns the center and radius at frame, clamped to the path. The
// center is reported as nil before it starts moving.
func (z *ZoomOut) View(frame int) (center *complex128, radius float64) {
	frame = min(max(frame, 0), len(z.radius)-1)
	if frame >= z.moveStart {
		c := z.center[frame-z.moveStart]
		center = &c
	}
	return center, z.radius[frame]
}

// Apply sets the view of frame on r.
func (z *ZoomOut) Apply(r *fractal.Renderer, frame int) error {
	center, radius := z.View(frame)
	return r.SetView(center, &radius)
}
