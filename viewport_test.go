package fractal

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func nearComplex(a, b complex128) bool {
	return math.Abs(real(a)-real(b)) <= 1e-12 && math.Abs(imag(a)-imag(b)) <= 1e-12
}

func TestNewViewport(t *testing.T) {
	vp, err := NewViewport(complex(-0.8, 0.1), 1.3, 200, 100)
	if err != nil {
		t.Fatalf("NewViewport() error = %v", err)
	}
	v := vp.Snapshot()

	if want := complex(-2.1, -1.2); !nearComplex(v.Min, want) {
		t.Errorf("Min = %v, want %v", v.Min, want)
	}
	if want := complex(0.5, 1.4); !nearComplex(v.Max, want) {
		t.Errorf("Max = %v, want %v", v.Max, want)
	}
	if want := 200 / 2.6; math.Abs(v.ScaleX-want) > 1e-12 {
		t.Errorf("ScaleX = %v, want %v", v.ScaleX, want)
	}
	if want := 100 / 2.6; math.Abs(v.ScaleY-want) > 1e-12 {
		t.Errorf("ScaleY = %v, want %v", v.ScaleY, want)
	}
}

func TestNewViewport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		w, h   int
		want   error
	}{
		{"zero radius", 0, 10, 10, ErrZeroRadius},
		{"negative radius", -1, 10, 10, ErrZeroRadius},
		{"NaN radius", math.NaN(), 10, 10, ErrZeroRadius},
		{"zero width", 1, 0, 10, ErrInvalidSize},
		{"negative height", 1, 10, -2, ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewViewport(0, tt.radius, tt.w, tt.h)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewViewport() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestViewport_SetView(t *testing.T) {
	vp, _ := NewViewport(0, 2, 100, 100)

	c := complex(1, 1)
	if err := vp.SetView(&c, nil); err != nil {
		t.Fatalf("SetView(center) error = %v", err)
	}
	v := vp.Snapshot()
	if v.Center != c || v.Radius != 2 {
		t.Errorf("after SetView(center): center=%v radius=%v", v.Center, v.Radius)
	}
	if v.Min != complex(-1, -1) {
		t.Errorf("Min not recomputed: %v", v.Min)
	}

	r := 0.5
	if err := vp.SetView(nil, &r); err != nil {
		t.Fatalf("SetView(radius) error = %v", err)
	}
	if v := vp.Snapshot(); v.Radius != 0.5 || v.ScaleX != 100 {
		t.Errorf("after SetView(radius): radius=%v scale=%v, want 0.5/100", v.Radius, v.ScaleX)
	}
}

func TestViewport_SetView_ZeroRadiusKeepsView(t *testing.T) {
	vp, _ := NewViewport(0, 2, 100, 100)
	before := vp.Snapshot()

	c, r := complex(5, 5), 0.0
	if err := vp.SetView(&c, &r); !errors.Is(err, ErrZeroRadius) {
		t.Fatalf("SetView(radius=0) error = %v, want ErrZeroRadius", err)
	}
	if after := vp.Snapshot(); after != before {
		t.Errorf("view changed on error: %+v -> %+v", before, after)
	}
}

func TestViewport_PixelToPlane(t *testing.T) {
	vp, _ := NewViewport(0, 3, 100, 100)

	tests := []struct {
		px, py float64
		want   complex128
	}{
		{0, 0, complex(-3, -3)},
		{50, 50, 0},
		{100, 100, complex(3, 3)},
		{25, 75, complex(-1.5, 1.5)},
	}
	for _, tt := range tests {
		got := vp.PixelToPlane(tt.px, tt.py)
		if math.Abs(real(got)-real(tt.want)) > 1e-12 || math.Abs(imag(got)-imag(tt.want)) > 1e-12 {
			t.Errorf("PixelToPlane(%v,%v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestViewport_RoundTrip(t *testing.T) {
	views := []struct {
		center complex128
		radius float64
		w, h   int
	}{
		{0, 3, 100, 100},
		{complex(-0.8, 0), 1.3, 64, 48},
		{complex(-0.743643887, 0.131825904), 1e-6, 37, 53},
		{complex(2, 2), 2, 120, 80},
	}
	for _, tc := range views {
		vp, err := NewViewport(tc.center, tc.radius, tc.w, tc.h)
		if err != nil {
			t.Fatal(err)
		}
		for y := 0; y < tc.h; y++ {
			for x := 0; x < tc.w; x++ {
				gx, gy := vp.PlaneToPixel(vp.PixelToPlane(float64(x), float64(y)))
				if abs(gx-x) > 1 || abs(gy-y) > 1 {
					t.Fatalf("view %v/%v: round trip (%d,%d) -> (%d,%d)", tc.center, tc.radius, x, y, gx, gy)
				}
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestView_Points(t *testing.T) {
	vp, _ := NewViewport(0, 2, 4, 3)
	v := vp.Snapshot()
	pts := v.Points()

	if len(pts) != 12 {
		t.Fatalf("len(Points()) = %d, want 12", len(pts))
	}
	for i, p := range pts {
		want := v.PixelToPlane(float64(i%4), float64(i/4))
		if p != want {
			t.Errorf("Points()[%d] = %v, want %v", i, p, want)
		}
	}
}

func TestView_FlippedPoints(t *testing.T) {
	vp, _ := NewViewport(complex(2, 2), 2, 4, 4)
	v := vp.Snapshot()
	pts := v.FlippedPoints()

	// Row 0 sits on the top edge of the plane.
	if got := imag(pts[0]); got != 4 {
		t.Errorf("FlippedPoints()[0] imag = %v, want 4", got)
	}
	if got := imag(pts[12]); got != 1 {
		t.Errorf("FlippedPoints()[12] imag = %v, want 1", got)
	}
	if real(pts[1]) != real(v.Points()[1]) {
		t.Error("FlippedPoints must not change the x axis")
	}
}

func TestViewport_ZoomAt(t *testing.T) {
	vp, _ := NewViewport(0, 2, 100, 100)

	if err := vp.ZoomAt(75, 50, 0.75); err != nil {
		t.Fatalf("ZoomAt() error = %v", err)
	}
	v := vp.Snapshot()
	if v.Center != complex(1, 0) {
		t.Errorf("Center = %v, want (1+0i)", v.Center)
	}
	if v.Radius != 1.5 {
		t.Errorf("Radius = %v, want 1.5", v.Radius)
	}

	if err := vp.ZoomAt(0, 0, 0); !errors.Is(err, ErrZeroRadius) {
		t.Errorf("ZoomAt(factor=0) error = %v, want ErrZeroRadius", err)
	}
}

func TestViewport_Pan(t *testing.T) {
	vp, _ := NewViewport(0, 2, 100, 100)
	vp.Pan(10, -25)

	if got, want := vp.Snapshot().Center, complex(0.4, -1); got != want {
		t.Errorf("Center after Pan = %v, want %v", got, want)
	}
}

func TestViewport_Included(t *testing.T) {
	vp, _ := NewViewport(0, 1, 10, 10)
	if !vp.Included(complex(0.5, -0.5)) {
		t.Error("Included(0.5-0.5i) = false, want true")
	}
	if vp.Included(complex(1.5, 0)) {
		t.Error("Included(1.5) = true, want false")
	}
}

func TestViewport_Update(t *testing.T) {
	vp, _ := NewViewport(0, 2, 100, 100)

	err := vp.Update(func(v View) (complex128, float64, error) {
		return v.Center + 1, v.Radius / 2, nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if v := vp.Snapshot(); v.Center != 1 || v.Radius != 1 || v.ScaleX != 50 {
		t.Errorf("view = %v r=%v scale=%v, want 1 r=1 scale=50", v.Center, v.Radius, v.ScaleX)
	}

	errStop := errors.New("stop")
	if err := vp.Update(func(View) (complex128, float64, error) { return 5, 5, errStop }); !errors.Is(err, errStop) {
		t.Errorf("Update() error = %v, want errStop", err)
	}
	err = vp.Update(func(v View) (complex128, float64, error) { return 7, 0, nil })
	if !errors.Is(err, ErrZeroRadius) {
		t.Errorf("Update(radius 0) error = %v, want ErrZeroRadius", err)
	}
	if v := vp.Snapshot(); v.Center != 1 || v.Radius != 1 {
		t.Errorf("failed Update changed the view to %v r=%v", v.Center, v.Radius)
	}
}

func TestView_Moved(t *testing.T) {
	vp, _ := NewViewport(0, 2, 100, 50)
	v := vp.Snapshot().Moved(1i, 1)
	if v.Width != 100 || v.Height != 50 || v.Min != complex(-1, 0) || v.ScaleY != 25 {
		t.Errorf("Moved() = %+v", v)
	}
}

func TestViewport_ConcurrentSetView(t *testing.T) {
	vp, _ := NewViewport(0, 1, 16, 16)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r := float64(i + 1)
			_ = vp.SetView(nil, &r)
		}()
		go func() {
			defer wg.Done()
			v := vp.Snapshot()
			// Derived fields always belong to the same radius.
			if want := 16 / (2 * v.Radius); math.Abs(v.ScaleX-want) > 1e-9 {
				t.Errorf("torn view: radius=%v scale=%v", v.Radius, v.ScaleX)
			}
		}()
	}
	wg.Wait()
}
