package fractal

import (
	"fmt"
	"math"
	"sync"
)

// View is an immutable snapshot of a Viewport with its derived fields.
// A frame is rendered from a single View so a concurrent SetView never
// mixes two views in one image.
type View struct {
	Center complex128
	Radius float64
	Width  int
	Height int

	// Min and Max are the plane bounds, Center -/+ Radius on both axes.
	Min, Max complex128

	// ScaleX and ScaleY are pixels per plane unit.
	ScaleX, ScaleY float64
}

func newView(center complex128, radius float64, w, h int) View {
	v := View{
		Center: center,
		Radius: radius,
		Width:  w,
		Height: h,
		Min:    complex(real(center)-radius, imag(center)-radius),
		Max:    complex(real(center)+radius, imag(center)+radius),
	}
	v.ScaleX = float64(w) / (real(v.Max) - real(v.Min))
	v.ScaleY = float64(h) / (imag(v.Max) - imag(v.Min))
	return v
}

// Moved returns the view of the same window around center and radius.
func (v View) Moved(center complex128, radius float64) View {
	return newView(center, radius, v.Width, v.Height)
}

// PixelToPlane maps a window position to the complex plane.
func (v View) PixelToPlane(px, py float64) complex128 {
	return complex(px/v.ScaleX+real(v.Min), py/v.ScaleY+imag(v.Min))
}

// PlaneToPixel maps a plane point to window coordinates, truncated toward
// zero.
func (v View) PlaneToPixel(c complex128) (x, y int) {
	return int((real(c) - real(v.Min)) * v.ScaleX), int((imag(c) - imag(v.Min)) * v.ScaleY)
}

// Included reports whether c lies inside the plane bounds.
func (v View) Included(c complex128) bool {
	return real(c) >= real(v.Min) && real(c) <= real(v.Max) &&
		imag(c) >= imag(v.Min) && imag(c) <= imag(v.Max)
}

// Points returns the plane point of every pixel in row-major order:
// index i holds pixel (i % Width, i / Width).
func (v View) Points() []complex128 {
	return v.points(false)
}

// FlippedPoints is like Points with the y axis pointing up, as the
// Lyapunov explorer draws its plane.
func (v View) FlippedPoints() []complex128 {
	return v.points(true)
}

func (v View) points(flip bool) []complex128 {
	pts := make([]complex128, v.Width*v.Height)
	minX, minY := real(v.Min), imag(v.Min)
	for y := range v.Height {
		py := float64(y)
		if flip {
			py = float64(v.Height - y)
		}
		im := py/v.ScaleY + minY
		row := pts[y*v.Width : (y+1)*v.Width]
		for x := range row {
			row[x] = complex(float64(x)/v.ScaleX+minX, im)
		}
	}
	return pts
}

// Viewport maps window pixels to the complex plane around a center and
// radius. Every mutation recomputes the derived fields under a lock, so a
// mapping call never sees a half-updated view.
//
// Viewport is safe for concurrent use.
type Viewport struct {
	mu   sync.RWMutex
	view View
}

// NewViewport creates a viewport of w x h pixels.
// It returns ErrZeroRadius when radius is not positive.
func NewViewport(center complex128, radius float64, w, h int) (*Viewport, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if err := checkRadius(radius); err != nil {
		return nil, err
	}
	return &Viewport{view: newView(center, radius, w, h)}, nil
}

func checkRadius(radius float64) error {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return fmt.Errorf("%w: got %v", ErrZeroRadius, radius)
	}
	return nil
}

// SetView changes the center, the radius, or both. A nil argument keeps
// the current value. On error the view is unchanged.
func (vp *Viewport) SetView(center *complex128, radius *float64) error {
	return vp.Update(func(v View) (complex128, float64, error) {
		c, r := v.Center, v.Radius
		if center != nil {
			c = *center
		}
		if radius != nil {
			r = *radius
		}
		return c, r, nil
	})
}

// Update replaces the view with the center and radius fn derives from the
// current one. fn runs under the viewport lock and must not call back into
// vp. If fn fails or returns an invalid radius the view is unchanged.
func (vp *Viewport) Update(fn func(View) (complex128, float64, error)) error {
	vp.mu.Lock()
	defer vp.mu.Unlock()

	c, r, err := fn(vp.view)
	if err != nil {
		return err
	}
	if err := checkRadius(r); err != nil {
		return err
	}
	vp.view = newView(c, r, vp.view.Width, vp.view.Height)
	return nil
}

// SetCenter moves the view center.
func (vp *Viewport) SetCenter(c complex128) {
	_ = vp.SetView(&c, nil)
}

// SetRadius changes the view radius.
func (vp *Viewport) SetRadius(r float64) error {
	return vp.SetView(nil, &r)
}

// ZoomAt recenters the view on pixel (px, py) and multiplies the radius by
// factor. A factor below 1 zooms in.
func (vp *Viewport) ZoomAt(px, py, factor float64) error {
	return vp.Update(func(v View) (complex128, float64, error) {
		return v.PixelToPlane(px, py), v.Radius * factor, nil
	})
}

// Pan shifts the center by a pixel offset.
func (vp *Viewport) Pan(dx, dy float64) {
	vp.mu.Lock()
	defer vp.mu.Unlock()

	v := vp.view
	c := v.Center + complex(dx/v.ScaleX, dy/v.ScaleY)
	vp.view = newView(c, v.Radius, v.Width, v.Height)
}

// Snapshot returns the current view.
func (vp *Viewport) Snapshot() View {
	vp.mu.RLock()
	defer vp.mu.RUnlock()
	return vp.view
}

// PixelToPlane maps a window position to the complex plane.
func (vp *Viewport) PixelToPlane(px, py float64) complex128 {
	return vp.Snapshot().PixelToPlane(px, py)
}

// PlaneToPixel maps a plane point to window coordinates.
func (vp *Viewport) PlaneToPixel(c complex128) (x, y int) {
	return vp.Snapshot().PlaneToPixel(c)
}

// Included reports whether c is inside the current view.
func (vp *Viewport) Included(c complex128) bool {
	return vp.Snapshot().Included(c)
}

// Points returns the plane point of every pixel in row-major order.
func (vp *Viewport) Points() []complex128 {
	return vp.Snapshot().Points()
}

// Size returns the window size in pixels.
func (vp *Viewport) Size() (w, h int) {
	v := vp.Snapshot()
	return v.Width, v.Height
}
